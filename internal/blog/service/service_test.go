package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/blog/domain"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"github.com/smallbiznis/inkwell/pkg/db"
	"github.com/smallbiznis/inkwell/pkg/db/pagination"
	"github.com/smallbiznis/inkwell/pkg/repository"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Blog{}, &domain.Comment{}, &domain.Review{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	return NewService(Params{
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Blogs:    repository.ProvideStore[domain.Blog](conn),
		Comments: repository.ProvideStore[domain.Comment](conn),
		Reviews:  repository.ProvideStore[domain.Review](conn),
	}), clk
}

func editorOf(orgID snowflake.ID) orgcontext.Membership {
	return orgcontext.Membership{
		OrganizationID: orgID,
		StaffID:        orgID + 1,
		UserID:         orgID + 2,
		Role:           scope.RoleEditor,
	}
}

func createBlog(t *testing.T, svc domain.Service, actor orgcontext.Membership, title string) *domain.Blog {
	t.Helper()
	blog, err := svc.Create(context.Background(), actor, domain.CreateBlogRequest{Title: title, Content: "body"})
	require.NoError(t, err)
	return blog
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	actor := editorOf(100)

	blog := createBlog(t, svc, actor, "  Hello ")
	assert.Equal(t, "Hello", blog.Title)
	assert.Equal(t, actor.OrganizationID, blog.OrganizationID)
	assert.Equal(t, actor.StaffID, blog.CreatedByStaffID)
	assert.False(t, blog.Published)

	got, err := svc.Get(context.Background(), actor, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, blog.ID, got.ID)

	_, err = svc.Get(context.Background(), editorOf(200), blog.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), editorOf(100), domain.CreateBlogRequest{
		Title:   strings.Repeat("t", domain.MaxTitleLength+1),
		Content: "",
	})
	require.ErrorIs(t, err, apperr.ErrValidation)

	appErr, _ := apperr.As(err)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "title", appErr.Fields[0].Field)
	assert.Equal(t, "max", appErr.Fields[0].Code)
	assert.Equal(t, "content", appErr.Fields[1].Field)
	assert.Equal(t, "required", appErr.Fields[1].Code)
}

func TestUpdatePublishUnpublish(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	actor := editorOf(100)
	blog := createBlog(t, svc, actor, "Draft")

	title := "Final"
	updated, err := svc.Update(ctx, actor, blog.ID, domain.UpdateBlogRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "body", updated.Content)

	clk.Advance(time.Hour)
	published, err := svc.Publish(ctx, actor, blog.ID)
	require.NoError(t, err)
	assert.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(clk.Now()))

	again, err := svc.Publish(ctx, actor, blog.ID)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(*published.PublishedAt))

	unpublished, err := svc.Unpublish(ctx, actor, blog.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.Published)
	assert.Nil(t, unpublished.PublishedAt)

	_, err = svc.Publish(ctx, editorOf(200), blog.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListPagesNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	actor := editorOf(100)

	var ids []snowflake.ID
	for i := 0; i < 5; i++ {
		ids = append(ids, createBlog(t, svc, actor, "post").ID)
	}
	createBlog(t, svc, editorOf(200), "elsewhere")
	_, err := svc.Publish(ctx, actor, ids[0])
	require.NoError(t, err)

	page, err := svc.List(ctx, actor, domain.ListBlogRequest{Pagination: pagination.Pagination{PageSize: 3}})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 3)
	assert.True(t, page.HasMore)
	assert.Equal(t, ids[4], page.Blogs[0].ID)

	next, err := svc.List(ctx, actor, domain.ListBlogRequest{Pagination: pagination.Pagination{PageSize: 3, PageToken: page.NextPageToken}})
	require.NoError(t, err)
	require.Len(t, next.Blogs, 2)
	assert.False(t, next.HasMore)
	assert.Equal(t, ids[0], next.Blogs[1].ID)

	published := true
	only, err := svc.List(ctx, actor, domain.ListBlogRequest{Published: &published})
	require.NoError(t, err)
	require.Len(t, only.Blogs, 1)
	assert.Equal(t, ids[0], only.Blogs[0].ID)

	_, err = svc.List(ctx, actor, domain.ListBlogRequest{Pagination: pagination.Pagination{PageToken: "%%%"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCommentsAndReviews(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	actor := editorOf(100)
	blog := createBlog(t, svc, actor, "Post")

	first, err := svc.Comment(ctx, actor, blog.ID, domain.ContentRequest{Content: "first"})
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, first.CreatedByUserID)
	clk.Advance(time.Minute)
	_, err = svc.Comment(ctx, actor, blog.ID, domain.ContentRequest{Content: "second"})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, actor, blog.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)

	review, err := svc.Review(ctx, actor, blog.ID, domain.ContentRequest{Content: "lgtm"})
	require.NoError(t, err)
	assert.Equal(t, actor.StaffID, review.CreatedByStaffID)

	reviews, err := svc.ListReviews(ctx, actor, blog.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = svc.Comment(ctx, actor, blog.ID, domain.ContentRequest{Content: " "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Review(ctx, editorOf(200), blog.ID, domain.ContentRequest{Content: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	actor := editorOf(100)
	blog := createBlog(t, svc, actor, "Gone")

	assert.ErrorIs(t, svc.Delete(ctx, editorOf(200), blog.ID), apperr.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, actor, blog.ID))

	_, err := svc.Get(ctx, actor, blog.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, actor, blog.ID), apperr.ErrNotFound)
}
