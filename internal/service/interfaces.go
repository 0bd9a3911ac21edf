package service

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

// TrackingService is the time tracking controller: the only component that
// mutates work sessions and breaks.
type TrackingService interface {
	ClockIn(ctx context.Context, actor app.Actor, notes string) (*app.TrackingSnapshot, error)
	ClockOut(ctx context.Context, actor app.Actor, notes string) (*app.TrackingSnapshot, error)
	StartBreak(ctx context.Context, actor app.Actor, breakType domain.BreakType) (*app.TrackingSnapshot, error)
	ResumeWork(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error)
	Snapshot(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error)
}

type ReportService interface {
	Daily(ctx context.Context, actor app.Actor, workDate string) (*domain.DailySummary, error)
	Weekly(ctx context.Context, actor app.Actor, anyDate string) (*domain.WeeklySummary, error)
}

type ApprovalService interface {
	Review(ctx context.Context, reviewer app.Actor, req app.ReviewRequest) (*domain.TimesheetApproval, error)
}

// CorrectionService lets a worker propose fixed clock times and a reviewer
// in the same organization apply them.
type CorrectionService interface {
	Submit(ctx context.Context, actor app.Actor, req app.CorrectionSubmission) (*domain.CorrectionRequest, error)
	Review(ctx context.Context, reviewer app.Actor, decision app.CorrectionDecision) (*domain.CorrectionRequest, error)
	List(ctx context.Context, actor app.Actor, query app.CorrectionQuery) ([]domain.CorrectionRequest, error)
}

type SweepService interface {
	CloseStale(ctx context.Context, now time.Time) (*app.SweepResult, error)
}

var (
	_ app.TrackingUseCase   = TrackingService(nil)
	_ app.ReportUseCase     = ReportService(nil)
	_ app.ApprovalUseCase   = ApprovalService(nil)
	_ app.SweepUseCase      = SweepService(nil)
	_ app.CorrectionUseCase = CorrectionService(nil)
)
