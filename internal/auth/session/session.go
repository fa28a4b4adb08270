package session

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/auth/token"
)

// Session is the identity resolved from a verified access token for one request.
type Session struct {
	UserID               snowflake.ID  `json:"id"`
	Email                string        `json:"email"`
	ActiveOrganizationID *snowflake.ID `json:"active_organization_id"`
	FirstName            string        `json:"first_name"`
	LastName             string        `json:"last_name"`
}

type sessionKey struct{}

func FromClaims(claims *token.Claims) Session {
	data := claims.Content.Data
	return Session{
		UserID:               data.ID,
		Email:                data.Email,
		ActiveOrganizationID: data.ActiveOrganizationID,
		FirstName:            data.FirstName,
		LastName:             data.LastName,
	}
}

func (s Session) Identity() token.Identity {
	return token.Identity{
		ID:                   s.UserID,
		Email:                s.Email,
		ActiveOrganizationID: s.ActiveOrganizationID,
		FirstName:            s.FirstName,
		LastName:             s.LastName,
	}
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext fails with apperr.ErrUnauthenticated when no session was attached.
func FromContext(ctx context.Context) (Session, error) {
	if ctx == nil {
		return Session{}, apperr.ErrUnauthenticated
	}
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok || s.UserID == 0 {
		return Session{}, apperr.ErrUnauthenticated
	}
	return s, nil
}
