package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/quickdecode"
	"github.com/ssargent/tagdecode/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DecodeRequest is the body of POST /decode. Code accepts hex (0x), binary
// (0b), octal (0o) or decimal.
type DecodeRequest struct {
	Family string `json:"family"`
	Code   string `json:"code"`
	Record *bool  `json:"record,omitempty"` // defaults to true when history is enabled
}

// DecodeResponse describes one decode.
type DecodeResponse struct {
	Family      string `json:"family"`
	Observed    string `json:"observed"`
	Found       bool   `json:"found"`
	ID          uint16 `json:"id"`
	Hamming     uint8  `json:"hamming"`
	Rotation    uint8  `json:"rotation"`
	Reference   string `json:"reference,omitempty"` // family codeword identified
	Matched     string `json:"matched,omitempty"`   // stored table word that matched
	DetectionID string `json:"detection_id,omitempty"`
}

// FamilyInfo summarises a registered family.
type FamilyInfo struct {
	Name        string `json:"name"`
	Bits        uint32 `json:"bits"`
	MinHamming  uint32 `json:"min_hamming"`
	BlackBorder uint32 `json:"black_border"`
	Codes       int    `json:"codes"`
	Initialized bool   `json:"initialized"`
	MaxHamming  int    `json:"max_hamming"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	Bind    string
	APIKey  string
	Metrics bool
}

// FamilyRegistry looks up families by name
type FamilyRegistry interface {
	Get(name string) (*family.Family, error)
	Families() []*family.Family
}

// DetectionHistory stores decode results
type DetectionHistory interface {
	Create(d *storage.Detection) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) (*storage.Detection, error)
	List(limit int) ([]*storage.Detection, error)
	ListByFamily(name string, limit int) ([]*storage.Detection, error)
}

func newDecodeResponse(f *family.Family, observed uint64, e quickdecode.Entry) DecodeResponse {
	resp := DecodeResponse{
		Family:   f.Name,
		Observed: family.FormatCode(observed),
		Found:    e.Found(),
		ID:       e.ID,
		Hamming:  e.Hamming,
		Rotation: e.Rotation,
	}
	if resp.Found {
		resp.Matched = family.FormatCode(e.Code)
		if int(e.ID) < len(f.Codes) {
			resp.Reference = family.FormatCode(f.Codes[e.ID])
		}
	}
	return resp
}
