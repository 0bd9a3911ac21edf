package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/compliance"
	"github.com/alexanderramin/shiftclock/internal/db"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
	"github.com/google/uuid"
)

type approvalService struct {
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewApprovalService(uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) ApprovalService {
	return &approvalService{
		uow:      uow,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Review records a manager's decision on a worker's day within the
// reviewer's organization. A later review of the same day replaces it.
func (s *approvalService) Review(ctx context.Context, reviewer app.Actor, req app.ReviewRequest) (result *domain.TimesheetApproval, err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "review-timesheet",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields: map[string]any{
				"reviewer_id": reviewer.UserID,
				"user_id":     req.SubjectUserID,
				"work_date":   req.WorkDate,
				"status":      string(req.Status),
			},
		})
	}()

	if err = reviewer.Validate(); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(req.SubjectUserID)
	if subject == "" {
		return nil, domain.ErrMissingActor
	}
	if subject == reviewer.UserID {
		return nil, domain.ErrSelfReview
	}
	if !domain.ValidReviewStatuses[req.Status] {
		return nil, domain.ErrInvalidReviewStatus
	}
	notes := strings.TrimSpace(req.Notes)
	if req.Status == domain.ReviewRejected && notes == "" {
		return nil, domain.ErrReasonRequired
	}
	day, err := compliance.ParseWorkDate(req.WorkDate, s.opts.Location)
	if err != nil {
		return nil, err
	}

	approval := &domain.TimesheetApproval{
		ID:             uuid.New().String(),
		UserID:         subject,
		OrganizationID: reviewer.OrganizationID,
		WorkDate:       day.WorkDate(),
		Status:         req.Status,
		ReviewerID:     reviewer.UserID,
		Notes:          notes,
		ReviewedAt:     s.opts.now(),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteApprovalRepo(tx)
		if err := repo.Upsert(ctx, approval); err != nil {
			return domain.Persistence("save approval", err)
		}
		stored, err := repo.Get(ctx, approval.UserID, approval.OrganizationID, approval.WorkDate)
		if err != nil {
			return domain.Persistence("reload approval", err)
		}
		result = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
