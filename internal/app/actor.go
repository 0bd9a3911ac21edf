package app

import (
	"strings"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// Actor identifies the worker a use case runs for. Every read and write is
// scoped to the actor's user and organization.
type Actor struct {
	UserID         string
	OrganizationID string
}

func (a Actor) Validate() error {
	if strings.TrimSpace(a.UserID) == "" || strings.TrimSpace(a.OrganizationID) == "" {
		return domain.ErrMissingActor
	}
	return nil
}
