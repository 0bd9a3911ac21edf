package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Many goroutines race to open a session for the same user against a
// file-backed database with a real connection pool. Exactly one insert may
// win; every loser must see ErrConflict rather than a raw driver error.
func TestConcurrentAccess_OneOpenSessionPerUser(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	repo := NewSQLiteWorkSessionRepo(database)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, testutil.NewTestSession(hm(9, i)))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
}

func TestConcurrentAccess_OneOpenBreakPerSession(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()

	s := testutil.NewTestSession(hm(9, 0))
	require.NoError(t, NewSQLiteWorkSessionRepo(database).Create(ctx, s))
	repo := NewSQLiteBreakPeriodRepo(database)

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok int

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, testutil.NewTestBreak(s.ID, domain.BreakCoffee, hm(11, i)))
			if err != nil && !errors.Is(err, ErrConflict) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
}

// Readers projecting today's history run alongside a writer toggling breaks.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	ctx := context.Background()
	sessions := NewSQLiteWorkSessionRepo(database)
	breaks := NewSQLiteBreakPeriodRepo(database)

	s := testutil.NewTestSession(hm(6, 0))
	require.NoError(t, sessions.Create(ctx, s))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			b := testutil.NewTestBreak(s.ID, domain.BreakRest, hm(8, i*2))
			if err := breaks.Create(ctx, b); err != nil {
				t.Errorf("writer: create break %d: %v", i, err)
				return
			}
			if err := breaks.Close(ctx, b.ID, hm(8, i*2+1)); err != nil {
				t.Errorf("writer: close break %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := sessions.ListOverlapping(ctx, testutil.TestUserID, testutil.TestOrgID, day, day.AddDate(0, 0, 1))
				if err != nil {
					t.Errorf("reader %d: %v", reader, err)
					return
				}
				if len(list) != 1 {
					t.Errorf("reader %d: expected 1 session, got %d", reader, len(list))
					return
				}
				if _, err := breaks.ListBySessions(ctx, []string{s.ID}); err != nil {
					t.Errorf("reader %d: %v", reader, err)
					return
				}
			}
		}(r)
	}
	wg.Wait()

	all, err := breaks.ListBySessions(ctx, []string{s.ID})
	require.NoError(t, err)
	assert.Len(t, all, 20)
	for _, b := range all {
		assert.NotNil(t, b.EndedAt, fmt.Sprintf("break %s left open", b.ID))
	}
}
