package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/inkwell/internal/apperr"
	auditdomain "github.com/smallbiznis/inkwell/internal/audit/domain"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	m, err := membership(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req auditdomain.ListAuditLogRequest
	if !bindQuery(c, &req) {
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), m.OrganizationID, req)
	if err != nil {
		AbortWithError(c, auditListError(err))
		return
	}

	respond(c, http.StatusOK, resp)
}

func auditListError(err error) error {
	switch {
	case errors.Is(err, auditdomain.ErrInvalidPageToken):
		return apperr.Invalid("page_token", "invalid", "page_token is invalid")
	case errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return apperr.Invalid("end_at", "invalid", "end_at must not be before start_at")
	case errors.Is(err, auditdomain.ErrInvalidOrganization):
		return apperr.NotFound(apperr.ResourceOrganization)
	default:
		return err
	}
}
