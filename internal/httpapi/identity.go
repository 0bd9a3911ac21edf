package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/domain"
)

// Identity headers set by the authenticating gateway in front of the API.
const (
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Organization-ID"
)

type contextKey string

var actorContextKey = contextKey("actor")

// identityMiddleware resolves the actor from the identity headers and
// rejects the request with 401 when either is missing.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := app.Actor{
			UserID:         strings.TrimSpace(r.Header.Get(HeaderUserID)),
			OrganizationID: strings.TrimSpace(r.Header.Get(HeaderOrganizationID)),
		}
		if err := actor.Validate(); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
	})
}

// ActorFromContext returns the actor injected by the identity middleware.
func ActorFromContext(ctx context.Context) (app.Actor, error) {
	actor, ok := ctx.Value(actorContextKey).(app.Actor)
	if !ok {
		return app.Actor{}, domain.ErrMissingActor
	}
	return actor, nil
}

func ContextWithActor(ctx context.Context, actor app.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}
