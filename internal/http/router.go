// Package httpapi assembles the HTTP surface: middleware chain, ledger
// routes, health, and metrics.
package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ledgerhandler "mizan/internal/ledger/handler"
	"mizan/internal/platform/metrics"
	"mizan/internal/platform/middleware"
	platformredis "mizan/internal/platform/redis"
	"mizan/pkg/platform/httputil"
	"mizan/pkg/platform/middleware/requestid"
	"mizan/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts. DB and Redis are optional;
// health reporting degrades to whatever is configured.
type Deps struct {
	Ledger  *ledgerhandler.Handler
	Logger  *slog.Logger
	Metrics *metrics.HTTP
	DB      *sql.DB
	Redis   *platformredis.Client
}

// NewRouter wires the middleware chain and all public endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.Get("/healthz", handleHealth(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Ledger.Register(r)

	return r
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db,omitempty"`
	Redis  string `json:"redis,omitempty"`
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if deps.DB != nil {
			resp.DB = "ok"
			if err := deps.DB.PingContext(r.Context()); err != nil {
				resp.DB = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		if deps.Redis != nil {
			resp.Redis = "ok"
			if err := deps.Redis.Health(r.Context()); err != nil {
				// The cache is optional; a summary recompute covers for
				// it, so Redis loss does not fail the health check.
				resp.Redis = "unavailable"
				resp.Status = "degraded"
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}
