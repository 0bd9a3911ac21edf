package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/cli/formatter"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/httpapi"
	"github.com/alexanderramin/shiftclock/internal/metrics"
	"github.com/alexanderramin/shiftclock/internal/service"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout     = 15 * time.Second
	rateLimitCleanupAge = 10 * time.Minute
)

func newSweepCmd(a *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Close sessions left open past the maximum session length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Sweep.CloseStale(cmd.Context(), a.now())
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromSweepResult(res), func() string {
				return formatter.FormatSweep(res, a.location())
			})
		},
	}
}

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the stale-session sweeper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: a.Config.SlogLevel()}))
			if a.UseCaseLog != nil {
				a.UseCaseLog.Set(service.NewSlogUseCaseObserver(logger))
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, logger, ln)
		},
	}

	defaultAddr := ":8080"
	if a.Config != nil {
		defaultAddr = a.Config.HTTPAddr
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "Listen address (env SHIFTCLOCK_HTTP_ADDR)")
	return cmd
}

// serve runs the API on ln until ctx is cancelled, then drains in-flight
// requests and stops the sweeper.
func (a *App) serve(ctx context.Context, logger *slog.Logger, ln net.Listener) error {
	deps := httpapi.Deps{
		Tracking:    a.Tracking,
		Reports:     a.Reports,
		Approvals:   a.Approvals,
		Corrections: a.Corrections,
		Logger:      logger,
		Ping:        a.Ping,
	}
	if a.Metrics != nil {
		deps.Recorder = a.Metrics
	}
	if a.Gatherer != nil {
		deps.Metrics = metrics.Handler(a.Gatherer)
	}
	if a.Config != nil && a.Config.RateLimitPerMin > 0 {
		rl := httpapi.NewRateLimiter(a.Config.RateLimitPerMin, rateLimitCleanupAge)
		defer rl.Stop()
		deps.RateLimiter = rl
	}

	server := &http.Server{
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		var interval time.Duration
		if a.Config != nil {
			interval = a.Config.SweepInterval
		}
		runSweeper(sweepCtx, a.Sweep, interval, a.now, logger)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", ln.Addr().String())
		errCh <- server.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down api server")
	case serveErr = <-errCh:
	}

	cancelSweep()
	<-sweepDone

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("api server stopped")
	return nil
}

// runSweeper closes stale sessions once at startup and then every interval
// until ctx is done. A zero interval or nil sweeper disables it.
func runSweeper(ctx context.Context, sweeper app.SweepUseCase, interval time.Duration, now func() time.Time, logger *slog.Logger) {
	if sweeper == nil || interval <= 0 {
		return
	}

	sweep := func() {
		res, err := sweeper.CloseStale(ctx, now())
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("sweep failed", "error", err.Error())
			}
			return
		}
		if n := len(res.ClosedSessions); n > 0 {
			logger.Info("closed stale sessions", "sessions", n, "breaks", res.ClosedBreaks)
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
