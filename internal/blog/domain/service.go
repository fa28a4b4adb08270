package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"github.com/smallbiznis/inkwell/pkg/db/pagination"
)

// Service operations are scoped to the organization of the gate-resolved
// membership. Rows of other organizations are reported as not found.
type Service interface {
	Create(ctx context.Context, actor orgcontext.Membership, req CreateBlogRequest) (*Blog, error)
	Get(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) (*Blog, error)
	List(ctx context.Context, actor orgcontext.Membership, req ListBlogRequest) (*ListBlogResponse, error)
	Update(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, req UpdateBlogRequest) (*Blog, error)
	Publish(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) (*Blog, error)
	Unpublish(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) (*Blog, error)
	Delete(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) error
	Comment(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, req ContentRequest) (*Comment, error)
	Review(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, req ContentRequest) (*Review, error)
	ListComments(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) ([]*Comment, error)
	ListReviews(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) ([]*Review, error)
}

type CreateBlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdateBlogRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type ContentRequest struct {
	Content string `json:"content"`
}

type ListBlogRequest struct {
	pagination.Pagination
	Published *bool `form:"published"`
}

type ListBlogResponse struct {
	pagination.PageInfo
	Blogs []*Blog `json:"blogs"`
}
