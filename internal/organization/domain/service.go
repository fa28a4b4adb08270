package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create adds the organization, its creator as super_admin and the
	// creator's active organization pointer in one transaction.
	Create(ctx context.Context, creatorID snowflake.ID, req CreateOrganizationRequest) (*OrganizationWithStaff, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]Organization, error)
	Update(ctx context.Context, userID, id snowflake.ID, req UpdateOrganizationRequest) (*Organization, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
	// Switch requires a live membership and moves the user's active organization.
	Switch(ctx context.Context, userID, id snowflake.ID) (*OrganizationWithStaff, error)
}

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type UpdateOrganizationRequest struct {
	Name string `json:"name"`
}
