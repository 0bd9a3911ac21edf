package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shiftclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func hm(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func TestWorkSessionRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := testutil.NewTestSession(hm(9, 0), testutil.WithSessionNotes("early start"))
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, testutil.TestUserID, got.UserID)
	assert.Equal(t, testutil.TestOrgID, got.OrganizationID)
	assert.True(t, got.ClockInAt.Equal(hm(9, 0)))
	assert.Nil(t, got.ClockOutAt)
	assert.Equal(t, "early start", got.Notes)
	assert.False(t, got.AutoClosed)
}

func TestWorkSessionRepo_PreservesMilliseconds(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	at := hm(9, 0).Add(1234 * time.Millisecond)
	s := testutil.NewTestSession(at)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.ClockInAt.Equal(at))
}

func TestWorkSessionRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkSessionRepo_SecondOpenSessionConflicts(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(hm(9, 0))))
	err := repo.Create(ctx, testutil.NewTestSession(hm(9, 1)))
	assert.ErrorIs(t, err, ErrConflict)

	// Another user is unaffected.
	other := testutil.NewTestSession(hm(9, 1), testutil.WithUser("user-2", testutil.TestOrgID))
	assert.NoError(t, repo.Create(ctx, other))
}

func TestWorkSessionRepo_GetOpen(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetOpen(ctx, testutil.TestUserID, testutil.TestOrgID)
	assert.ErrorIs(t, err, ErrNotFound)

	closed := testutil.NewTestSession(hm(7, 0), testutil.WithClockOut(hm(8, 0)))
	open := testutil.NewTestSession(hm(9, 0))
	require.NoError(t, repo.Create(ctx, closed))
	require.NoError(t, repo.Create(ctx, open))

	got, err := repo.GetOpen(ctx, testutil.TestUserID, testutil.TestOrgID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	// Scoped by organization.
	_, err = repo.GetOpen(ctx, testutil.TestUserID, "org-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkSessionRepo_Close(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := testutil.NewTestSession(hm(9, 0))
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Close(ctx, s.ID, hm(17, 0), "done"))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClockOutAt)
	assert.True(t, got.ClockOutAt.Equal(hm(17, 0)))
	assert.Equal(t, "done", got.Notes)

	// Closing twice matches no open row.
	err = repo.Close(ctx, s.ID, hm(18, 0), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkSessionRepo_CloseBeforeClockInRejected(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := testutil.NewTestSession(hm(9, 0))
	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Close(ctx, s.ID, hm(8, 0), ""))
}

func TestWorkSessionRepo_ListOverlapping(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	prevDay := testutil.NewTestSession(hm(-20, 0), testutil.WithClockOut(hm(-18, 0)))
	crossMidnight := testutil.NewTestSession(hm(-2, 0), testutil.WithClockOut(hm(1, 0)))
	morning := testutil.NewTestSession(hm(8, 0), testutil.WithClockOut(hm(12, 0)))
	afternoon := testutil.NewTestSession(hm(13, 0))
	otherUser := testutil.NewTestSession(hm(9, 0), testutil.WithUser("user-2", testutil.TestOrgID))
	require.NoError(t, repo.Create(ctx, prevDay))
	require.NoError(t, repo.Create(ctx, crossMidnight))
	require.NoError(t, repo.Create(ctx, morning))
	require.NoError(t, repo.Create(ctx, afternoon))
	require.NoError(t, repo.Create(ctx, otherUser))

	got, err := repo.ListOverlapping(ctx, testutil.TestUserID, testutil.TestOrgID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, crossMidnight.ID, got[0].ID)
	assert.Equal(t, morning.ID, got[1].ID)
	assert.Equal(t, afternoon.ID, got[2].ID)
}

func TestWorkSessionRepo_ListOverlappingIncludesOpenFromYesterday(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	open := testutil.NewTestSession(hm(-1, 0))
	require.NoError(t, repo.Create(ctx, open))

	got, err := repo.ListOverlapping(ctx, testutil.TestUserID, testutil.TestOrgID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
}

func TestWorkSessionRepo_ListStaleOpenAndMarkAutoClosed(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	stale := testutil.NewTestSession(hm(-20, 0))
	fresh := testutil.NewTestSession(hm(9, 0), testutil.WithUser("user-2", testutil.TestOrgID))
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))

	cutoff := hm(10, 0).Add(-16 * time.Hour)
	got, err := repo.ListStaleOpen(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)

	require.NoError(t, repo.MarkAutoClosed(ctx, stale.ID, hm(-4, 0), "auto-closed"))
	closed, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.True(t, closed.AutoClosed)
	assert.Equal(t, "auto-closed", closed.Notes)
	require.NotNil(t, closed.ClockOutAt)
	assert.True(t, closed.ClockOutAt.Equal(hm(-4, 0)))

	got, err = repo.ListStaleOpen(ctx, cutoff)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorkSessionRepo_OpenSessionPerOrganization(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestSession(hm(9, 0))))
	other := testutil.NewTestSession(hm(9, 5), testutil.WithUser(testutil.TestUserID, "org-2"))
	require.NoError(t, repo.Create(ctx, other))

	got, err := repo.GetOpen(ctx, testutil.TestUserID, "org-2")
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ID)

	err = repo.Create(ctx, testutil.NewTestSession(hm(9, 10), testutil.WithUser(testutil.TestUserID, "org-2")))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestWorkSessionRepo_Correct(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := testutil.NewTestSession(hm(9, 0))
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.MarkAutoClosed(ctx, s.ID, hm(23, 0), "auto"))

	require.NoError(t, repo.Correct(ctx, s.ID, hm(8, 30), hm(17, 0), "auto; corrected"))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.ClockInAt.Equal(hm(8, 30)))
	require.NotNil(t, got.ClockOutAt)
	assert.True(t, got.ClockOutAt.Equal(hm(17, 0)))
	assert.Equal(t, "auto; corrected", got.Notes)
	assert.False(t, got.AutoClosed)
}

func TestWorkSessionRepo_Correct_OpenOrMissing(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	open := testutil.NewTestSession(hm(9, 0))
	require.NoError(t, repo.Create(ctx, open))

	assert.ErrorIs(t, repo.Correct(ctx, open.ID, hm(8, 0), hm(10, 0), ""), ErrNotFound)
	assert.ErrorIs(t, repo.Correct(ctx, "missing", hm(8, 0), hm(10, 0), ""), ErrNotFound)
}

func TestWorkSessionRepo_Correct_CheckConstraint(t *testing.T) {
	repo := NewSQLiteWorkSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := testutil.NewTestSession(hm(9, 0), testutil.WithClockOut(hm(17, 0)))
	require.NoError(t, repo.Create(ctx, s))

	assert.Error(t, repo.Correct(ctx, s.ID, hm(17, 0), hm(9, 0), ""))
}
