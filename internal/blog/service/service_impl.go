package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/blog/domain"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"github.com/smallbiznis/inkwell/pkg/db/option"
	"github.com/smallbiznis/inkwell/pkg/db/pagination"
	"github.com/smallbiznis/inkwell/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Blogs    repository.Repository[domain.Blog]
	Comments repository.Repository[domain.Comment]
	Reviews  repository.Repository[domain.Review]
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	blogs    repository.Repository[domain.Blog]
	comments repository.Repository[domain.Comment]
	reviews  repository.Repository[domain.Review]
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("blog.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		blogs:    p.Blogs,
		comments: p.Comments,
		reviews:  p.Reviews,
	}
}

func (s *Service) Create(ctx context.Context, actor orgcontext.Membership, req domain.CreateBlogRequest) (*domain.Blog, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if err := validateFields(
		checkText("title", title, domain.MaxTitleLength),
		checkText("content", content, domain.MaxContentLength),
	); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	blog := &domain.Blog{
		ID:               s.genID.Generate(),
		OrganizationID:   actor.OrganizationID,
		CreatedByStaffID: actor.StaffID,
		Title:            title,
		Content:          content,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *Service) Get(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) (*domain.Blog, error) {
	if id == 0 || actor.OrganizationID == 0 {
		return nil, apperr.NotFound(apperr.ResourceBlog)
	}
	blog, err := s.blogs.FindOne(ctx, &domain.Blog{ID: id, OrganizationID: actor.OrganizationID})
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apperr.NotFound(apperr.ResourceBlog)
	}
	return blog, nil
}

func (s *Service) List(ctx context.Context, actor orgcontext.Membership, req domain.ListBlogRequest) (*domain.ListBlogResponse, error) {
	afterID, err := req.AfterID()
	if err != nil {
		return nil, apperr.Invalid("page_token", "invalid", "page_token is invalid")
	}
	limit := req.Limit()

	opts := []option.QueryOption{
		option.WithIDBefore(afterID),
		option.WithSortBy("id", "desc"),
		option.WithLimit(limit + 1),
	}
	if req.Published != nil {
		opts = append(opts, option.WithWhere("published = ?", *req.Published))
	}

	items, err := s.blogs.Find(ctx, &domain.Blog{OrganizationID: actor.OrganizationID}, opts...)
	if err != nil {
		return nil, err
	}

	items, info := pagination.BuildCursorPage(items, limit, func(b *domain.Blog) string {
		return b.ID.String()
	})
	if items == nil {
		items = []*domain.Blog{}
	}
	return &domain.ListBlogResponse{PageInfo: *info, Blogs: items}, nil
}

func (s *Service) Update(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, req domain.UpdateBlogRequest) (*domain.Blog, error) {
	updates := map[string]any{}
	var checks []*apperr.FieldError
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		checks = append(checks, checkText("title", title, domain.MaxTitleLength))
		updates["title"] = title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		checks = append(checks, checkText("content", content, domain.MaxContentLength))
		updates["content"] = content
	}
	if err := validateFields(checks...); err != nil {
		return nil, err
	}

	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return blog, nil
	}
	return s.apply(ctx, actor, blog.ID, updates)
}

func (s *Service) Publish(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) (*domain.Blog, error) {
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if blog.Published {
		return blog, nil
	}
	return s.apply(ctx, actor, blog.ID, map[string]any{
		"published":    true,
		"published_at": s.clock.Now().UTC(),
	})
}

func (s *Service) Unpublish(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) (*domain.Blog, error) {
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !blog.Published {
		return blog, nil
	}
	return s.apply(ctx, actor, blog.ID, map[string]any{
		"published":    false,
		"published_at": nil,
	})
}

func (s *Service) Delete(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) error {
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.blogs.Delete(ctx, blog.ID)
}

func (s *Service) Comment(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, req domain.ContentRequest) (*domain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if err := validateFields(checkText("content", content, domain.MaxContentLength)); err != nil {
		return nil, err
	}
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:              s.genID.Generate(),
		BlogID:          blog.ID,
		OrganizationID:  blog.OrganizationID,
		CreatedByUserID: actor.UserID,
		Content:         content,
		CreatedAt:       s.clock.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) Review(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, req domain.ContentRequest) (*domain.Review, error) {
	content := strings.TrimSpace(req.Content)
	if err := validateFields(checkText("content", content, domain.MaxContentLength)); err != nil {
		return nil, err
	}
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:               s.genID.Generate(),
		BlogID:           blog.ID,
		OrganizationID:   blog.OrganizationID,
		CreatedByStaffID: actor.StaffID,
		Content:          content,
		CreatedAt:        s.clock.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.log.Debug("blog reviewed", zap.String("blog_id", blog.ID.String()), zap.String("staff_id", actor.StaffID.String()))
	return review, nil
}

func (s *Service) ListComments(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) ([]*domain.Comment, error) {
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, err := s.comments.Find(ctx, &domain.Comment{BlogID: blog.ID}, option.WithSortBy("created_at", "asc"))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Comment{}
	}
	return items, nil
}

func (s *Service) ListReviews(ctx context.Context, actor orgcontext.Membership, id snowflake.ID) ([]*domain.Review, error) {
	blog, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, err := s.reviews.Find(ctx, &domain.Review{BlogID: blog.ID}, option.WithSortBy("created_at", "asc"))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Review{}
	}
	return items, nil
}

func (s *Service) apply(ctx context.Context, actor orgcontext.Membership, id snowflake.ID, updates map[string]any) (*domain.Blog, error) {
	updates["updated_at"] = s.clock.Now().UTC()
	if err := s.blogs.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func checkText(field, value string, max int) *apperr.FieldError {
	switch {
	case value == "":
		return &apperr.FieldError{Field: field, Code: "required", Message: field + " is required"}
	case len(value) > max:
		return &apperr.FieldError{Field: field, Code: "max", Message: field + " is too long"}
	}
	return nil
}

func validateFields(checks ...*apperr.FieldError) error {
	var fields []apperr.FieldError
	for _, fe := range checks {
		if fe != nil {
			fields = append(fields, *fe)
		}
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
