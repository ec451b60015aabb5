// Package httpapi is the HTTP surface for the optimizer service: the
// two stateless optimize endpoints, a health check, and a Prometheus
// metrics endpoint, built from a mux of Go 1.22+ method-specific
// patterns, a handler struct holding its collaborators, and a shared
// writeJSON/writeJSONError pair.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tourflow/optimizer/internal/optimize"
	"github.com/tourflow/optimizer/internal/platform/logging"
)

const maxRequestBodyBytes int64 = 5 << 20 // 5 MiB; a day of POIs is a few KB each

// optimizeRunner is the subset of *optimize.Service each handler needs,
// kept as an interface so tests can stub it without a full Service.
type optimizeRunner interface {
	RunA(ctx context.Context, req *optimize.Request) (*optimize.Response, error)
	RunB(ctx context.Context, req *optimize.Request) (*optimize.Response, error)
}

// Handler serves the optimizer HTTP API.
type Handler struct {
	service optimizeRunner
	logger  logging.Logger
}

// NewHandler builds a Handler.
func NewHandler(service optimizeRunner, logger logging.Logger) *Handler {
	return &Handler{service: service, logger: logging.OrNop(logger)}
}

// HandleOptimize serves POST /optimize (function-quota allocator).
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	h.runOptimize(w, r, h.service.RunA)
}

// HandleOptimizeRoute serves POST /optimize-route (k-means clustering
// allocator).
func (h *Handler) HandleOptimizeRoute(w http.ResponseWriter, r *http.Request) {
	h.runOptimize(w, r, h.service.RunB)
}

func (h *Handler) runOptimize(w http.ResponseWriter, r *http.Request, run func(context.Context, *optimize.Request) (*optimize.Response, error)) {
	var req optimize.Request
	if !decodeJSONBody(w, r, &req, maxRequestBodyBytes) {
		return
	}
	if req.DurationDays <= 0 {
		writeJSONError(w, http.StatusBadRequest, "duration_days must be positive", nil)
		return
	}

	resp, err := run(r.Context(), &req)
	if err != nil {
		h.logger.Error("optimize pipeline failed", "error", err.Error())
		writeJSONError(w, http.StatusInternalServerError, "optimization failed", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth serves GET / and GET /health, both returning the fixed
// liveness body.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "healthy", Service: "tourflow-optimizer"})
}

type healthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// writeJSON serialises payload as JSON and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeJSONError writes a {"error": message} body.
func writeJSONError(w http.ResponseWriter, status int, message string, cause error) {
	_ = cause // surfaced via logging at the call site, not echoed to the client
	writeJSON(w, status, errorBody{Error: message})
}

// decodeJSONBody decodes r.Body into dst, capping the body size. Fields
// beyond dst's known shape are tolerated: real POIs carry many more
// attributes (rating, vicinity, photos, geometry, ...) than this
// service models, and a richer-than-expected payload is not malformed.
// Returns false (and has already written an error response) on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload", err)
		return false
	}
	return true
}
