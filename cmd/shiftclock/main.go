package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/shiftclock/internal/cli"
	"github.com/alexanderramin/shiftclock/internal/config"
	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/metrics"
	"github.com/alexanderramin/shiftclock/internal/repository"
	"github.com/alexanderramin/shiftclock/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	sessionRepo := repository.NewSQLiteWorkSessionRepo(database)
	breakRepo := repository.NewSQLiteBreakPeriodRepo(database)
	approvalRepo := repository.NewSQLiteApprovalRepo(database)
	correctionRepo := repository.NewSQLiteCorrectionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// The CLI logs use cases only on request; serve replaces this with JSON.
	useCaseLog := &service.SwitchUseCaseObserver{}
	if cfg.LogUseCases {
		useCaseLog.Set(service.NewSlogUseCaseObserver(logger))
	}

	opts := service.Options{
		Location:             cfg.Location(),
		MaxSessionDuration:   cfg.MaxSession,
		AutoResumeOnClockOut: cfg.AutoResumeOnClockOut,
	}

	app := &cli.App{
		Tracking:    service.NewTrackingService(sessionRepo, breakRepo, uow, opts, collector, useCaseLog),
		Reports:     service.NewReportService(sessionRepo, breakRepo, approvalRepo, opts, collector, useCaseLog),
		Approvals:   service.NewApprovalService(uow, opts, collector, useCaseLog),
		Corrections: service.NewCorrectionService(sessionRepo, correctionRepo, uow, opts, collector, useCaseLog),
		Sweep:       service.NewSweepService(sessionRepo, uow, opts, collector, useCaseLog),
		Config:      cfg,

		UseCaseLog: useCaseLog,
		Metrics:    collector,
		Gatherer:   reg,
		Ping:       database.PingContext,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
