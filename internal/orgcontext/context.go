package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
)

// Membership is published by the scope gate once a staff row has been
// resolved and the requested scope granted.
type Membership struct {
	OrganizationID snowflake.ID
	StaffID        snowflake.ID
	UserID         snowflake.ID
	Role           scope.Role
}

type membershipKey struct{}

func WithMembership(ctx context.Context, m Membership) context.Context {
	return context.WithValue(ctx, membershipKey{}, m)
}

// MembershipFromContext fails with apperr.ErrNotAllowedAccess when no scope
// gate ran for this request.
func MembershipFromContext(ctx context.Context) (Membership, error) {
	if ctx == nil {
		return Membership{}, apperr.ErrNotAllowedAccess
	}
	m, ok := ctx.Value(membershipKey{}).(Membership)
	if !ok || m.OrganizationID == 0 {
		return Membership{}, apperr.ErrNotAllowedAccess
	}
	return m, nil
}

// OrgIDFromContext returns the organization resolved for this request, if any.
func OrgIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	m, err := MembershipFromContext(ctx)
	if err != nil {
		return 0, false
	}
	return m.OrganizationID, true
}
