// Package httptransport assembles the public HTTP surface: shared middleware,
// health checks, the operator tick endpoint and the bounded-context handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unionhub/internal/access"
	dErrors "unionhub/pkg/domain-errors"
	"unionhub/pkg/platform/httputil"
	"unionhub/pkg/platform/middleware/admin"
	"unionhub/pkg/platform/middleware/metadata"
	"unionhub/pkg/platform/middleware/request"
	"unionhub/pkg/platform/middleware/requesttime"
	"unionhub/pkg/requestcontext"
)

// Ticker applies the advisory time-based election transitions.
type Ticker interface {
	Tick(ctx context.Context) (int, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Registrar mounts one bounded context's routes.
type Registrar interface {
	Register(r chi.Router)
}

// DefaultAutoTickInterval is the minimum gap between request-driven ticks.
const DefaultAutoTickInterval = 15 * time.Second

type Deps struct {
	Logger   *slog.Logger
	Observer request.Observer
	Actors   access.ActorResolver
	Ticker   Ticker
	// Ready is optional; without it /readyz always answers ok.
	Ready      Pinger
	AdminToken string
	// AutoTick runs Ticker ahead of API requests, at most once per
	// AutoTickInterval.
	AutoTick         bool
	AutoTickInterval time.Duration
	Handlers         []Registrar
}

// NewRouter wires the middleware chain and every route.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger, d.Observer))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(d.Ready, logger))
	r.Handle("/metrics", promhttp.Handler())

	if d.Ticker != nil {
		r.With(admin.RequireAdminToken(d.AdminToken, logger)).Post("/admin/tick", tickHandler(d.Ticker, logger))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(access.RequireActor(d.Actors, logger))
		if d.AutoTick && d.Ticker != nil {
			interval := d.AutoTickInterval
			if interval <= 0 {
				interval = DefaultAutoTickInterval
			}
			r.Use(autoTick(d.Ticker, interval, logger))
		}
		for _, h := range d.Handlers {
			h.Register(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

func readiness(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type tickResponse struct {
	Advanced int `json:"advanced"`
}

func tickHandler(ticker Ticker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		n, err := ticker.Tick(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "election tick failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, tickResponse{Advanced: n})
	}
}

// autoTick opportunistically advances election windows before serving API
// traffic. A failed tick is logged and the request proceeds; statuses are
// advisory and every time check is re-done against the request clock.
func autoTick(ticker Ticker, interval time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	var last atomic.Int64
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now().UnixNano()
			prev := last.Load()
			if now-prev >= int64(interval) && last.CompareAndSwap(prev, now) {
				ctx := r.Context()
				if n, err := ticker.Tick(ctx); err != nil {
					logger.WarnContext(ctx, "auto tick failed", "error", err)
				} else if n > 0 {
					logger.InfoContext(ctx, "auto tick advanced elections", "advanced", n)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
