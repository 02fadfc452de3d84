// Package storage keeps a history of decoded markers in a pebble database.
//
// Keys:
//
//	det/<ksuid>                 framed JSON Detection
//	fam/<family>\x00<ksuid>     empty, secondary index by family
//
// KSUIDs sort by creation time, so both key spaces iterate oldest first.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/tagdecode/pkg/codec"
	"github.com/ssargent/tagdecode/pkg/quickdecode"
)

// ErrNotFound is returned when a detection id is not stored.
var ErrNotFound = errors.New("detection not found")

var (
	detectionPrefix = []byte("det/")
	detectionUpper  = []byte("det0")
	familyPrefix    = []byte("fam/")
)

const familySep = 0x00

// Detection is one decode result kept in the history.
type Detection struct {
	ID        string            `json:"id"`
	Family    string            `json:"family"`
	Observed  uint64            `json:"observed"`
	Entry     quickdecode.Entry `json:"entry"`
	Found     bool              `json:"found"`
	Source    string            `json:"source,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// DetectionStore persists detections keyed by KSUID, with a secondary index
// by family name.
type DetectionStore struct {
	db *pebble.DB
}

// NewDetectionStore opens or creates a store at path.
func NewDetectionStore(path string) (*DetectionStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open detection store: %w", err)
	}
	return &DetectionStore{db: db}, nil
}

func detectionKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(detectionPrefix)+len(id))
	key = append(key, detectionPrefix...)
	return append(key, id.Bytes()...)
}

// familyBounds returns the key range holding the index entries of name.
func familyBounds(name string) (lower, upper []byte) {
	lower = make([]byte, 0, len(familyPrefix)+len(name)+1)
	lower = append(lower, familyPrefix...)
	lower = append(lower, name...)
	upper = append(append([]byte{}, lower...), familySep+1)
	lower = append(lower, familySep)
	return lower, upper
}

func familyKey(name string, id ksuid.KSUID) []byte {
	lower, _ := familyBounds(name)
	return append(lower, id.Bytes()...)
}

// Create assigns an id and timestamp to d and stores it.
func (s *DetectionStore) Create(d *Detection) (ksuid.KSUID, error) {
	id := ksuid.New()
	d.ID = id.String()
	d.CreatedAt = id.Time().UTC()
	d.Found = d.Entry.Found()

	data, err := json.Marshal(d)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to encode detection: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(detectionKey(id), codec.Encode(data), nil); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to stage detection: %w", err)
	}
	if err := batch.Set(familyKey(d.Family, id), nil, nil); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to stage family index: %w", err)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store detection: %w", err)
	}
	return id, nil
}

// Read returns the detection stored under id.
func (s *DetectionStore) Read(id ksuid.KSUID) (*Detection, error) {
	data, closer, err := s.db.Get(detectionKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return decodeDetection(data)
}

func decodeDetection(data []byte) (*Detection, error) {
	payload, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read detection: %w", err)
	}

	var d Detection
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("failed to decode detection: %w", err)
	}
	return &d, nil
}

// List returns up to limit detections, newest first. KSUID timestamps have
// one second resolution, so detections created within the same second come
// back in arbitrary order. limit <= 0 returns all.
func (s *DetectionStore) List(limit int) ([]*Detection, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: detectionPrefix,
		UpperBound: detectionUpper,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*Detection
	for valid := iter.Last(); valid; valid = iter.Prev() {
		d, err := decodeDetection(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, iter.Error()
}

// ListByFamily is List restricted to detections of one family.
func (s *DetectionStore) ListByFamily(name string, limit int) ([]*Detection, error) {
	lower, upper := familyBounds(name)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []*Detection
	for valid := iter.Last(); valid; valid = iter.Prev() {
		id, err := ksuid.FromBytes(iter.Key()[len(lower):])
		if err != nil {
			return nil, fmt.Errorf("malformed family index key: %w", err)
		}
		d, err := s.Read(id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, iter.Error()
}

// Delete removes the detection stored under id and its index entry.
func (s *DetectionStore) Delete(id ksuid.KSUID) error {
	d, err := s.Read(id)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(detectionKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(familyKey(d.Family, id), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

// Close closes the underlying database.
func (s *DetectionStore) Close() error {
	return s.db.Close()
}
