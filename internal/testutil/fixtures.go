package testutil

import (
	"sync"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/google/uuid"
)

const (
	TestUserID = "user-1"
	TestOrgID  = "org-1"
)

// Session options
type SessionOption func(*domain.WorkSession)

func WithUser(userID, orgID string) SessionOption {
	return func(s *domain.WorkSession) {
		s.UserID = userID
		s.OrganizationID = orgID
	}
}

func WithClockOut(t time.Time) SessionOption {
	return func(s *domain.WorkSession) {
		s.ClockOutAt = &t
	}
}

func WithSessionNotes(n string) SessionOption {
	return func(s *domain.WorkSession) {
		s.Notes = n
	}
}

func NewTestSession(clockIn time.Time, opts ...SessionOption) *domain.WorkSession {
	s := &domain.WorkSession{
		ID:             uuid.New().String(),
		UserID:         TestUserID,
		OrganizationID: TestOrgID,
		ClockInAt:      clockIn,
		CreatedAt:      clockIn,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Break options
type BreakOption func(*domain.BreakPeriod)

func WithEndedAt(t time.Time) BreakOption {
	return func(b *domain.BreakPeriod) {
		b.EndedAt = &t
	}
}

func NewTestBreak(sessionID string, typ domain.BreakType, startedAt time.Time, opts ...BreakOption) *domain.BreakPeriod {
	b := &domain.BreakPeriod{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      typ,
		StartedAt: startedAt,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Clock is a settable time source for services under test.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
