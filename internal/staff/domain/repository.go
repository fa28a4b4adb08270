package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, staff *Staff) error
	// FindActive returns nil when the user has no live row in the organization.
	FindActive(ctx context.Context, orgID, userID snowflake.ID) (*Staff, error)
	// FindAny includes soft-deleted rows.
	FindAny(ctx context.Context, orgID, userID snowflake.ID) (*Staff, error)
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Staff, error)
	Restore(ctx context.Context, id snowflake.ID, roleID scope.Role) error
	UpdateRole(ctx context.Context, id snowflake.ID, roleID scope.Role) error
	SoftDelete(ctx context.Context, id snowflake.ID) error
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Staff, error)
	FindRole(ctx context.Context, id scope.Role) (*Role, error)
	OrganizationExists(ctx context.Context, orgID snowflake.ID) (bool, error)
}
