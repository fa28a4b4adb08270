package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/inkwell/internal/apperr"
	blogdomain "github.com/smallbiznis/inkwell/internal/blog/domain"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
)

func (s *Server) CreateBlog(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req blogdomain.CreateBlogRequest
	if !bindJSON(c, &req) {
		return
	}

	blog, err := s.blogSvc.Create(c.Request.Context(), m, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, blog)
}

func (s *Server) ListBlogs(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req blogdomain.ListBlogRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := s.blogSvc.List(c.Request.Context(), m, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}

func (s *Server) GetBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	blog, err := s.blogSvc.Get(c.Request.Context(), m, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, blog)
}

func (s *Server) UpdateBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	var req blogdomain.UpdateBlogRequest
	if !bindJSON(c, &req) {
		return
	}

	blog, err := s.blogSvc.Update(c.Request.Context(), m, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, blog)
}

func (s *Server) PublishBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	blog, err := s.blogSvc.Publish(c.Request.Context(), m, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, blog)
}

func (s *Server) UnpublishBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	blog, err := s.blogSvc.Unpublish(c.Request.Context(), m, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, blog)
}

func (s *Server) DeleteBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	if err := s.blogSvc.Delete(c.Request.Context(), m, id); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, nil)
}

func (s *Server) CommentBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	var req blogdomain.ContentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := s.blogSvc.Comment(c.Request.Context(), m, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, comment)
}

func (s *Server) ListBlogComments(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	items, err := s.blogSvc.ListComments(c.Request.Context(), m, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, items)
}

func (s *Server) ReviewBlog(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	var req blogdomain.ContentRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := s.blogSvc.Review(c.Request.Context(), m, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, review)
}

func (s *Server) ListBlogReviews(c *gin.Context) {
	m, id, ok := blogTarget(c)
	if !ok {
		return
	}

	items, err := s.blogSvc.ListReviews(c.Request.Context(), m, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, items)
}

// blogTarget reads the gate-resolved membership and the :id blog parameter.
func blogTarget(c *gin.Context) (orgcontext.Membership, snowflake.ID, bool) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return orgcontext.Membership{}, 0, false
	}
	id, err := parseID(c, "id", apperr.ResourceBlog)
	if err != nil {
		AbortWithError(c, err)
		return orgcontext.Membership{}, 0, false
	}
	return m, id, true
}
