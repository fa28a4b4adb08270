package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/auth/session"
	obscontext "github.com/smallbiznis/inkwell/internal/observability/context"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"go.uber.org/zap"
)

const HeaderOrg = "X-Org"

// OrgExtractor reads the raw organization id a scope gate checks against.
type OrgExtractor func(c *gin.Context) string

func orgFromHeader(c *gin.Context) string {
	return c.GetHeader(HeaderOrg)
}

// OrgFromParam reads the organization id from a path parameter instead of X-Org.
func OrgFromParam(name string) OrgExtractor {
	return func(c *gin.Context) string {
		return c.Param(name)
	}
}

// SessionContext attaches the session of a valid access token to the request
// context. A missing or bad token leaves the request anonymous.
func (s *Server) SessionContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := s.sessions.Authenticate(c); ok {
			ctx := session.WithSession(c.Request.Context(), sess)
			ctx = obscontext.WithActor(ctx, "user", sess.UserID.String())
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := session.FromContext(c.Request.Context()); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireScope resolves the caller's staff row in the target organization and
// checks its role against required. On success the membership is published on
// the request context for the handler.
func (s *Server) RequireScope(required scope.Scope, extract ...OrgExtractor) gin.HandlerFunc {
	from := OrgExtractor(orgFromHeader)
	if len(extract) > 0 && extract[0] != nil {
		from = extract[0]
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := session.FromContext(ctx)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		orgID, err := parseOrgID(from(c))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		ctx = obscontext.WithOrgID(ctx, orgID.String())

		staff, err := s.staffSvc.Resolve(ctx, sess.UserID, orgID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := s.authzSvc.Authorize(ctx, staff.RoleID, required); err != nil {
			AbortWithError(c, err)
			return
		}

		ctx = orgcontext.WithMembership(ctx, orgcontext.Membership{
			OrganizationID: orgID,
			StaffID:        staff.ID,
			UserID:         sess.UserID,
			Role:           staff.RoleID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SignInRateLimit throttles sign-in attempts per client address.
func (s *Server) SignInRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.signInLimiter == nil {
			c.Next()
			return
		}

		res := s.signInLimiter.Allow(c.Request.Context(), c.ClientIP())
		if res == nil {
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			}
			s.log.Info("sign-in throttled", zap.String("client_ip", c.ClientIP()))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func parseOrgID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.NotFound(apperr.ResourceOrganization)
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(apperr.ResourceOrganization)
	}
	return id, nil
}

func parseID(c *gin.Context, name, resource string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param(name)))
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

func membership(c *gin.Context) (orgcontext.Membership, error) {
	return orgcontext.MembershipFromContext(c.Request.Context())
}

func currentSession(c *gin.Context) (session.Session, error) {
	return session.FromContext(c.Request.Context())
}
