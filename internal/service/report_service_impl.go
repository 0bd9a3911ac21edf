package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/compliance"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/repository"
)

type reportService struct {
	history   historyLoader
	approvals repository.ApprovalRepo
	opts      Options
	observer  UseCaseObserver
}

func NewReportService(
	sessions repository.WorkSessionRepo,
	breaks repository.BreakPeriodRepo,
	approvals repository.ApprovalRepo,
	opts Options,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		history:   historyLoader{sessions: sessions, breaks: breaks},
		approvals: approvals,
		opts:      opts.withDefaults(),
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Daily summarizes one local day. An empty workDate means today.
func (s *reportService) Daily(ctx context.Context, actor app.Actor, workDate string) (_ *domain.DailySummary, err error) {
	fields := map[string]any{"user_id": actor.UserID, "work_date": workDate}
	defer observe(ctx, s.observer, "daily-report", time.Now(), fields, &err)

	if err := actor.Validate(); err != nil {
		return nil, err
	}
	now := s.opts.now()
	day, err := s.resolveDay(workDate, now)
	if err != nil {
		return nil, err
	}

	sessions, breaks, err := s.history.load(ctx, actor, day.Start, day.End)
	if err != nil {
		return nil, err
	}
	sum := compliance.SummarizeDay(day, sessions, breaks, now)

	approval, err := s.approvals.Get(ctx, actor.UserID, actor.OrganizationID, sum.WorkDate)
	switch {
	case err == nil:
		sum.Approval = approval
	case !errors.Is(err, repository.ErrNotFound):
		return nil, domain.Persistence("get approval", err)
	}
	return &sum, nil
}

// Weekly summarizes the Monday-start week containing anyDate (default today).
// The whole week is read with one range query.
func (s *reportService) Weekly(ctx context.Context, actor app.Actor, anyDate string) (_ *domain.WeeklySummary, err error) {
	fields := map[string]any{"user_id": actor.UserID, "work_date": anyDate}
	defer observe(ctx, s.observer, "weekly-report", time.Now(), fields, &err)

	if err := actor.Validate(); err != nil {
		return nil, err
	}
	now := s.opts.now()
	ref, err := s.resolveDay(anyDate, now)
	if err != nil {
		return nil, err
	}
	days := compliance.WeekDays(ref.Start, s.opts.Location)
	first, last := days[0], days[len(days)-1]

	sessions, breaks, err := s.history.load(ctx, actor, first.Start, last.End)
	if err != nil {
		return nil, err
	}
	approvals, err := s.approvals.ListRange(ctx, actor.UserID, actor.OrganizationID, first.WorkDate(), last.WorkDate())
	if err != nil {
		return nil, domain.Persistence("list approvals", err)
	}
	byDate := make(map[string]domain.TimesheetApproval, len(approvals))
	for _, a := range approvals {
		byDate[a.WorkDate] = a
	}

	summaries := make([]domain.DailySummary, len(days))
	for i, day := range days {
		summaries[i] = compliance.SummarizeDay(day, sessions, breaks, now)
		if a, ok := byDate[summaries[i].WorkDate]; ok {
			a := a
			summaries[i].Approval = &a
		}
	}
	week := compliance.SummarizeWeek(first.WorkDate(), summaries)
	return &week, nil
}

func (s *reportService) resolveDay(workDate string, now time.Time) (compliance.DayWindow, error) {
	if workDate == "" {
		return compliance.DayWindowFor(now, s.opts.Location), nil
	}
	return compliance.ParseWorkDate(workDate, s.opts.Location)
}
