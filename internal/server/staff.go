package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/inkwell/internal/apperr"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	staffdomain "github.com/smallbiznis/inkwell/internal/staff/domain"
)

func (s *Server) AddStaff(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req staffdomain.AddStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := s.staffSvc.Add(c.Request.Context(), m, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, staff)
}

func (s *Server) ListStaff(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.staffSvc.List(c.Request.Context(), m.OrganizationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, items)
}

func (s *Server) UpdateStaffRole(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	staffID, err := parseID(c, "id", apperr.ResourceStaff)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req staffdomain.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	staff, err := s.staffSvc.UpdateRole(c.Request.Context(), m, staffID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, staff)
}

func (s *Server) RemoveStaff(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	staffID, err := parseID(c, "id", apperr.ResourceStaff)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.staffSvc.Remove(c.Request.Context(), m, staffID); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, nil)
}

// ListCandidates lists users that can still be added to the organization.
func (s *Server) ListCandidates(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req authdomain.ListCandidatesRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := s.authsvc.ListCandidates(c.Request.Context(), m.OrganizationID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}
