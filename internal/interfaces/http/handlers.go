package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/panicdrop/altscan/internal/application/pipeline"
	"github.com/panicdrop/altscan/internal/application/scanner"
	"github.com/panicdrop/altscan/internal/domain"
)

// ScannerService is the slice of the scanner the API needs.
type ScannerService interface {
	Refresh(ctx context.Context) (*scanner.ScanResult, error)
	Snapshot() scanner.Snapshot
	ApplyFilters(criteria domain.FilterCriteria, n int) (*pipeline.RankResult, error)
	Section(name string) []domain.Token
}

// Handlers manages all HTTP endpoint handlers
type Handlers struct {
	scanner ScannerService
	started time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(scanner ScannerService) *Handlers {
	return &Handlers{scanner: scanner, started: time.Now()}
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports server liveness and snapshot freshness.
type HealthResponse struct {
	Status     string    `json:"status"`
	Uptime     string    `json:"uptime"`
	Generation uint64    `json:"generation"`
	Tokens     int       `json:"tokens"`
	SampleData bool      `json:"sample_data"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TokensResponse is the envelope for token list endpoints.
type TokensResponse struct {
	Tokens       []domain.Token `json:"tokens"`
	Count        int            `json:"count"`
	Generation   uint64         `json:"generation"`
	SampleData   bool           `json:"sample_data"`
	Insufficient bool           `json:"insufficient,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// writeJSON writes JSON response with proper error handling
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

// writeError writes standardized error response
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.scanner.Snapshot()
	status := "ok"
	if len(snap.Tokens) == 0 {
		status = "warming_up"
	}
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:     status,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Generation: snap.Generation,
		Tokens:     len(snap.Tokens),
		SampleData: snap.Fallback,
		UpdatedAt:  snap.UpdatedAt,
	})
}

// Tokens handles GET /tokens: the full current snapshot, unfiltered.
func (h *Handlers) Tokens(w http.ResponseWriter, r *http.Request) {
	snap := h.scanner.Snapshot()
	h.writeJSON(w, http.StatusOK, TokensResponse{
		Tokens:     snap.Tokens,
		Count:      len(snap.Tokens),
		Generation: snap.Generation,
		SampleData: snap.Fallback,
		UpdatedAt:  snap.UpdatedAt,
	})
}

// Top handles GET /top with query parameters:
//
//	n           number of tokens (default from scanner config)
//	category    category tag or "all"
//	cap         market cap bucket: all|large|mid|small|micro
//	no_stables  exclude stablecoins
//	no_memes    exclude memecoins
func (h *Handlers) Top(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	n := 0
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, r, http.StatusBadRequest, "invalid_n",
				"n must be a positive integer")
			return
		}
		n = parsed
	}

	bucket, err := domain.ParseBucket(q.Get("cap"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_cap", err.Error())
		return
	}

	criteria := domain.FilterCriteria{
		Category:           q.Get("category"),
		Bucket:             bucket,
		ExcludeStablecoins: parseBool(q.Get("no_stables")),
		ExcludeMemecoins:   parseBool(q.Get("no_memes")),
	}
	if criteria.Category == "" {
		criteria.Category = "all"
	}

	result, err := h.scanner.ApplyFilters(criteria, n)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "ranking_failed", err.Error())
		return
	}

	snap := h.scanner.Snapshot()
	h.writeJSON(w, http.StatusOK, TokensResponse{
		Tokens:       result.Tokens,
		Count:        len(result.Tokens),
		Generation:   snap.Generation,
		SampleData:   snap.Fallback,
		Insufficient: result.Insufficient,
		UpdatedAt:    snap.UpdatedAt,
	})
}

// Section handles GET /sections/{section} for the dashboard's fixed
// panels: narrative, meme, network.
func (h *Handlers) Section(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["section"]
	tokens := h.scanner.Section(name)
	if tokens == nil {
		h.writeError(w, r, http.StatusNotFound, "unknown_section",
			"section must be one of: narrative, meme, network")
		return
	}

	snap := h.scanner.Snapshot()
	h.writeJSON(w, http.StatusOK, TokensResponse{
		Tokens:     tokens,
		Count:      len(tokens),
		Generation: snap.Generation,
		SampleData: snap.Fallback,
		UpdatedAt:  snap.UpdatedAt,
	})
}

// Category handles GET /categories/{category}: every token carrying
// the given category tag, in snapshot order.
func (h *Handlers) Category(w http.ResponseWriter, r *http.Request) {
	name := domain.Category(mux.Vars(r)["category"])

	known := false
	for _, c := range domain.Categories {
		if c == name {
			known = true
			break
		}
	}
	if !known {
		h.writeError(w, r, http.StatusNotFound, "unknown_category",
			"unrecognized category tag")
		return
	}

	snap := h.scanner.Snapshot()
	tokens := make([]domain.Token, 0)
	for _, t := range snap.Tokens {
		if t.Category == name {
			tokens = append(tokens, t)
		}
	}

	h.writeJSON(w, http.StatusOK, TokensResponse{
		Tokens:     tokens,
		Count:      len(tokens),
		Generation: snap.Generation,
		SampleData: snap.Fallback,
		UpdatedAt:  snap.UpdatedAt,
	})
}

// Refresh handles POST /refresh: runs a scan cycle synchronously and
// returns its summary. A concurrent call supersedes the running cycle.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanner.Refresh(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusBadGateway, "refresh_failed", err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// NotFound handles 404 responses
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"The requested endpoint does not exist")
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
