package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manager = app.Actor{UserID: "manager-1", OrganizationID: testutil.TestOrgID}

func TestReview_Validation(t *testing.T) {
	e := newEnv(t, testutil.NewTestDB(t))
	svc := NewApprovalService(testutil.NewTestUoW(e.db), e.opts)
	ctx := context.Background()

	tests := []struct {
		name     string
		reviewer app.Actor
		req      app.ReviewRequest
		wantErr  error
	}{
		{"missing reviewer", app.Actor{}, app.ReviewRequest{SubjectUserID: "user-1", WorkDate: "2025-06-16", Status: domain.ReviewApproved}, domain.ErrMissingActor},
		{"missing subject", manager, app.ReviewRequest{WorkDate: "2025-06-16", Status: domain.ReviewApproved}, domain.ErrMissingActor},
		{"self review", manager, app.ReviewRequest{SubjectUserID: manager.UserID, WorkDate: "2025-06-16", Status: domain.ReviewApproved}, domain.ErrSelfReview},
		{"bad status", manager, app.ReviewRequest{SubjectUserID: "user-1", WorkDate: "2025-06-16", Status: "pending"}, domain.ErrInvalidReviewStatus},
		{"reject without reason", manager, app.ReviewRequest{SubjectUserID: "user-1", WorkDate: "2025-06-16", Status: domain.ReviewRejected, Notes: "  "}, domain.ErrReasonRequired},
		{"bad date", manager, app.ReviewRequest{SubjectUserID: "user-1", WorkDate: "16.06.2025", Status: domain.ReviewApproved}, domain.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Review(ctx, tt.reviewer, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReview_RejectThenApprove(t *testing.T) {
	e := newEnv(t, testutil.NewTestDB(t))
	obs := &recordingObserver{}
	svc := NewApprovalService(testutil.NewTestUoW(e.db), e.opts, obs)
	ctx := context.Background()

	rejected, err := svc.Review(ctx, manager, app.ReviewRequest{
		SubjectUserID: "user-1",
		WorkDate:      "2025-06-16",
		Status:        domain.ReviewRejected,
		Notes:         "missing lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewRejected, rejected.Status)
	assert.Equal(t, "missing lunch", rejected.Notes)
	assert.Equal(t, testutil.TestOrgID, rejected.OrganizationID)
	assert.True(t, rejected.ReviewedAt.Equal(start))

	e.clock.Advance(time.Hour)
	approved, err := svc.Review(ctx, manager, app.ReviewRequest{
		SubjectUserID: "user-1",
		WorkDate:      "2025-06-16",
		Status:        domain.ReviewApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, rejected.ID, approved.ID)
	assert.Equal(t, domain.ReviewApproved, approved.Status)
	assert.True(t, approved.ReviewedAt.Equal(start.Add(time.Hour)))

	assert.Equal(t, []string{"review-timesheet", "review-timesheet"}, obs.names())
}
