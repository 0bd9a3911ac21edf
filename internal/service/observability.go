package service

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events as text to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver writes service use-case events to logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error(), "error_code", domain.ErrorCode(event.Err))
		// Rejected actions are expected; only storage and unknown failures
		// are errors.
		switch domain.ErrorCode(event.Err) {
		case "persistence", "internal":
			o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		default:
			o.logger.WarnContext(ctx, "service_use_case", attrs...)
		}
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

type multiUseCaseObserver []UseCaseObserver

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		obs.ObserveUseCase(ctx, event)
	}
}

// useCaseObserverOrNoop fans events out to every non-nil observer.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

// SwitchUseCaseObserver forwards events to an observer that can be replaced
// after the services are built. The zero value drops events.
type SwitchUseCaseObserver struct {
	current atomic.Pointer[UseCaseObserver]
}

// Set replaces the downstream observer. A nil observer drops events.
func (s *SwitchUseCaseObserver) Set(obs UseCaseObserver) {
	if obs == nil {
		s.current.Store(nil)
		return
	}
	s.current.Store(&obs)
}

func (s *SwitchUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	if obs := s.current.Load(); obs != nil {
		(*obs).ObserveUseCase(ctx, event)
	}
}

// observe reports one use-case call. It is deferred at the top of each use
// case with a pointer to the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err *error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}
