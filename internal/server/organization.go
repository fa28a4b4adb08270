package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	organizationdomain "github.com/smallbiznis/inkwell/internal/organization/domain"
)

// CreateOrganization makes the caller super_admin of a new organization and
// reissues the cookies so the session carries it as the active organization.
func (s *Server) CreateOrganization(c *gin.Context) {
	sess, err := currentSession(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req organizationdomain.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	result, err := s.organizationSvc.Create(ctx, sess.UserID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.authsvc.Get(ctx, sess.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.issueTokens(c, user); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, result)
}

func (s *Server) ListOrganizations(c *gin.Context) {
	sess, err := currentSession(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.organizationSvc.ListOrganizationsByUser(c.Request.Context(), sess.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, items)
}

func (s *Server) GetOrganization(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	org, err := s.organizationSvc.GetByID(c.Request.Context(), m.OrganizationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, org)
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req organizationdomain.UpdateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := s.organizationSvc.Update(c.Request.Context(), m.UserID, m.OrganizationID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, org)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.organizationSvc.Delete(c.Request.Context(), m.UserID, m.OrganizationID); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, nil)
}

// LoginOrganization switches the caller's active organization.
func (s *Server) LoginOrganization(c *gin.Context) {
	sess, err := currentSession(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, err := parseOrgID(c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := s.organizationSvc.Switch(ctx, sess.UserID, orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.authsvc.Get(ctx, sess.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.issueTokens(c, user); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}
