package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/pkg/db/pagination"
)

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	SignIn(ctx context.Context, req SignInRequest) (*User, error)
	Get(ctx context.Context, id snowflake.ID) (*User, error)
	UpdateProfile(ctx context.Context, id snowflake.ID, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, id snowflake.ID, req ChangePasswordRequest) error
	SetActiveOrganization(ctx context.Context, id snowflake.ID, orgID snowflake.ID) (*User, error)
	ListCandidates(ctx context.Context, orgID snowflake.ID, req ListCandidatesRequest) (*ListCandidatesResponse, error)
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ListCandidatesRequest struct {
	pagination.Pagination
}

type ListCandidatesResponse struct {
	pagination.PageInfo
	Users []*User `json:"users"`
}
