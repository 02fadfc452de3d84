package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/tagdecode/pkg/family"
	"github.com/ssargent/tagdecode/pkg/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	maxRequestBody   = 1 << 16
)

// Server holds the API server state
type Server struct {
	registry FamilyRegistry
	history  DetectionHistory
	config   ServerConfig
	metrics  *Metrics
	logger   *slog.Logger
}

// NewServer creates a new API server. history and metrics may be nil.
func NewServer(registry FamilyRegistry, history DetectionHistory, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry: registry,
		history:  history,
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}
}

// ObserveTables publishes build time and size of every initialized table.
func (s *Server) ObserveTables() {
	for _, f := range s.registry.Families() {
		stats, err := f.Stats()
		if err != nil {
			continue
		}
		s.metrics.RecordTableBuild(f.Name, f.BuildTime(), stats.Slots, stats.Entries)
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ready := 0
	families := s.registry.Families()
	for _, f := range families {
		if f.Initialized() {
			ready++
		}
	}
	sendSuccess(w, map[string]interface{}{
		"status":   "healthy",
		"families": len(families),
		"ready":    ready,
	})
}

// handleListFamilies godoc
//
//	@Summary		List families
//	@Description	List every registered marker family
//	@Tags			families
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/families [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	families := s.registry.Families()
	infos := make([]FamilyInfo, 0, len(families))
	for _, f := range families {
		infos = append(infos, newFamilyInfo(f))
	}
	sendSuccess(w, infos)
}

// handleFamilyStats godoc
//
//	@Summary		Decode table statistics
//	@Description	Get slot usage and probe run lengths for a family's decode table
//	@Tags			families
//	@Produce		json
//	@Param			name	path		string	true	"Family name"
//	@Success		200		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		503		{object}	APIResponse
//	@Router			/families/{name}/stats [get]
//	@Security		ApiKeyAuth
func (s *Server) handleFamilyStats(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookupFamily(w, chi.URLParam(r, "name"))
	if !ok {
		return
	}

	stats, err := f.Stats()
	if err != nil {
		sendError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	sendSuccess(w, stats)
}

// handleDecode godoc
//
//	@Summary		Decode a codeword
//	@Description	Identify an observed codeword, correcting bit errors and rotation
//	@Tags			decode
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DecodeRequest	true	"Observed codeword"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		503		{object}	APIResponse
//	@Router			/decode [post]
//	@Security		ApiKeyAuth
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Family == "" {
		sendError(w, "family is required", http.StatusBadRequest)
		return
	}

	observed, err := family.ParseCode(req.Code)
	if err != nil {
		sendError(w, "invalid code: "+err.Error(), http.StatusBadRequest)
		return
	}

	f, ok := s.lookupFamily(w, req.Family)
	if !ok {
		return
	}

	entry, err := f.Decode(observed)
	if err != nil {
		sendError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.metrics.RecordDecode(f.Name, entry.Found(), entry.Hamming, entry.Rotation)

	resp := newDecodeResponse(f, observed, entry)
	if s.history != nil && (req.Record == nil || *req.Record) {
		id, err := s.history.Create(&storage.Detection{
			Family:   f.Name,
			Observed: observed,
			Entry:    entry,
			Source:   "api",
		})
		if err != nil {
			s.logger.Error("failed to record detection", "family", f.Name, "error", err)
			sendError(w, "failed to record detection", http.StatusInternalServerError)
			return
		}
		resp.DetectionID = id.String()
	}

	sendSuccess(w, resp)
}

// handleGetDetection godoc
//
//	@Summary		Get a detection
//	@Description	Fetch a recorded decode by its KSUID
//	@Tags			detections
//	@Produce		json
//	@Param			id	path		string	true	"Detection ID"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Router			/detections/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetDetection(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		sendError(w, "detection history disabled", http.StatusNotFound)
		return
	}

	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "invalid detection id", http.StatusBadRequest)
		return
	}

	d, err := s.history.Read(id)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, "detection not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to read detection", "id", id.String(), "error", err)
		sendError(w, "failed to read detection", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, d)
}

// handleListDetections godoc
//
//	@Summary		List detections
//	@Description	List recorded decodes, newest first
//	@Tags			detections
//	@Produce		json
//	@Param			limit	query		int		false	"Maximum number of detections"
//	@Param			family	query		string	false	"Only detections of this family"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIResponse
//	@Router			/detections [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListDetections(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		sendSuccess(w, []*storage.Detection{})
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			sendError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}

	var (
		detections []*storage.Detection
		err        error
	)
	if name := r.URL.Query().Get("family"); name != "" {
		detections, err = s.history.ListByFamily(name, limit)
	} else {
		detections, err = s.history.List(limit)
	}
	if err != nil {
		s.logger.Error("failed to list detections", "error", err)
		sendError(w, "failed to list detections", http.StatusInternalServerError)
		return
	}
	if detections == nil {
		detections = []*storage.Detection{}
	}
	sendSuccess(w, detections)
}

func (s *Server) lookupFamily(w http.ResponseWriter, name string) (*family.Family, bool) {
	f, err := s.registry.Get(name)
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return f, true
}

func newFamilyInfo(f *family.Family) FamilyInfo {
	info := FamilyInfo{
		Name:        f.Name,
		Bits:        f.Bits,
		MinHamming:  f.MinHamming,
		BlackBorder: f.BlackBorder,
		Codes:       len(f.Codes),
	}
	if t := f.Table(); t != nil {
		info.Initialized = true
		info.MaxHamming = t.MaxHamming()
	}
	return info
}
