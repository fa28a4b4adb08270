package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
)

type Service interface {
	// Resolve finds the caller's live membership. A missing organization is
	// ResourceNotFound; a missing membership is NotAllowedAccess.
	Resolve(ctx context.Context, userID, orgID snowflake.ID) (*Staff, error)
	Add(ctx context.Context, actor orgcontext.Membership, req AddStaffRequest) (*Staff, error)
	UpdateRole(ctx context.Context, actor orgcontext.Membership, staffID snowflake.ID, req UpdateRoleRequest) (*Staff, error)
	Remove(ctx context.Context, actor orgcontext.Membership, staffID snowflake.ID) error
	List(ctx context.Context, orgID snowflake.ID) ([]Staff, error)
}

type AddStaffRequest struct {
	UserID         snowflake.ID `json:"user_id"`
	RoleID         scope.Role   `json:"role_id"`
	OrganizationID snowflake.ID `json:"organization_id"`
}

type UpdateRoleRequest struct {
	RoleID scope.Role `json:"role_id"`
}
