package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tourflow/optimizer/internal/platform/logging"
)

// RouterConfig carries the router's environment-derived behavior.
type RouterConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
	MetricsEnabled bool
}

// NewRouter builds the full HTTP handler: routes registered on a
// Go 1.22+ method-pattern ServeMux, wrapped in the middleware stack.
// Outside in: BodyLimit, Logging, Compression, CORS, Recover, then the
// mux.
func NewRouter(handler *Handler, registerer prometheus.Registerer, logger logging.Logger, cfg RouterConfig) http.Handler {
	logger = logging.OrNop(logger)
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = maxRequestBodyBytes
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", handler.HandleHealth)
	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("POST /optimize", handler.HandleOptimize)
	mux.HandleFunc("POST /optimize-route", handler.HandleOptimizeRoute)

	if cfg.MetricsEnabled && registerer != nil {
		if gatherer, ok := registerer.(prometheus.Gatherer); ok {
			mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		} else {
			mux.Handle("GET /metrics", promhttp.Handler())
		}
	}

	var h http.Handler = mux
	h = RecoverMiddleware(logger)(h)
	h = CORSMiddleware(cfg.AllowedOrigins)(h)
	h = CompressionMiddleware()(h)
	h = LoggingMiddleware(logger)(h)
	h = BodyLimitMiddleware(maxBody)(h)
	return h
}
