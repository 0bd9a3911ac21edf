// Package httpapi exposes the tracking, report, approval and correction use
// cases over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/go-chi/chi/v5"
)

// Deps collects what NewRouter wires together. Metrics, RateLimiter and
// Ping are optional.
type Deps struct {
	Tracking    app.TrackingUseCase
	Reports     app.ReportUseCase
	Approvals   app.ApprovalUseCase
	Corrections app.CorrectionUseCase

	Logger      *slog.Logger
	Recorder    HTTPRecorder
	Metrics     http.Handler
	RateLimiter *RateLimiter
	Ping        func(ctx context.Context) error
}

// NewRouter builds the API routes.
//
// Middleware order: recovery → logging on every route, then
// identity → rate limit on /api/v1.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(recoveryMiddleware(logger))
	r.Use(loggingMiddleware(logger, deps.Recorder))

	r.Get("/healthz", healthz(deps.Ping))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	tracking := &trackingHandler{uc: deps.Tracking}
	reports := &reportHandler{uc: deps.Reports}
	approvals := &approvalHandler{uc: deps.Approvals}
	corrections := &correctionHandler{uc: deps.Corrections}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identityMiddleware)
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware)
		}

		r.Route("/tracking", func(r chi.Router) {
			r.Get("/", tracking.Snapshot)
			r.Post("/clock-in", tracking.ClockIn)
			r.Post("/clock-out", tracking.ClockOut)
			r.Post("/breaks", tracking.StartBreak)
			r.Post("/breaks/resume", tracking.ResumeWork)
		})

		r.Get("/reports/daily", reports.Daily)
		r.Get("/reports/weekly", reports.Weekly)

		r.Put("/approvals/{userID}/{date}", approvals.Review)

		r.Route("/corrections", func(r chi.Router) {
			r.Get("/", corrections.List)
			r.Post("/", corrections.Submit)
			r.Put("/{id}", corrections.Review)
		})
	})

	return r
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
