package app

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

type TrackingUseCase interface {
	ClockIn(ctx context.Context, actor Actor, notes string) (*TrackingSnapshot, error)
	ClockOut(ctx context.Context, actor Actor, notes string) (*TrackingSnapshot, error)
	StartBreak(ctx context.Context, actor Actor, breakType domain.BreakType) (*TrackingSnapshot, error)
	ResumeWork(ctx context.Context, actor Actor) (*TrackingSnapshot, error)
	Snapshot(ctx context.Context, actor Actor) (*TrackingSnapshot, error)
}

type ReportUseCase interface {
	Daily(ctx context.Context, actor Actor, workDate string) (*domain.DailySummary, error)
	Weekly(ctx context.Context, actor Actor, anyDate string) (*domain.WeeklySummary, error)
}

type ApprovalUseCase interface {
	Review(ctx context.Context, reviewer Actor, req ReviewRequest) (*domain.TimesheetApproval, error)
}

type CorrectionUseCase interface {
	Submit(ctx context.Context, actor Actor, req CorrectionSubmission) (*domain.CorrectionRequest, error)
	Review(ctx context.Context, reviewer Actor, decision CorrectionDecision) (*domain.CorrectionRequest, error)
	List(ctx context.Context, actor Actor, query CorrectionQuery) ([]domain.CorrectionRequest, error)
}

type SweepUseCase interface {
	CloseStale(ctx context.Context, now time.Time) (*SweepResult, error)
}
