package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/inkwell/internal/apperr"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/internal/auth/token"
	"go.uber.org/zap"
)

func (s *Server) SignUp(c *gin.Context) {
	var req authdomain.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.authsvc.SignUp(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.issueTokens(c, user); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, user)
}

func (s *Server) SignIn(c *gin.Context) {
	var req authdomain.SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.authsvc.SignIn(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.issueTokens(c, user); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

// Refresh mints a new pair from the stored user, so profile and active
// organization changes made elsewhere are picked up.
func (s *Server) Refresh(c *gin.Context) {
	raw, ok := s.sessions.ReadRefreshToken(c)
	if !ok {
		AbortWithError(c, apperr.ErrUnauthenticated)
		return
	}
	claims, err := s.tokens.Verify(raw, token.TypeRefresh)
	if err != nil {
		AbortWithError(c, apperr.ErrUnauthenticated)
		return
	}

	user, err := s.authsvc.Get(c.Request.Context(), claims.Content.Data.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.issueTokens(c, user); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

func (s *Server) SignOut(c *gin.Context) {
	s.sessions.Clear(c)
	respond(c, http.StatusOK, nil)
}

func (s *Server) Me(c *gin.Context) {
	sess, err := currentSession(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, sess)
}

func (s *Server) UpdateMe(c *gin.Context) {
	sess, err := currentSession(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req authdomain.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := s.authsvc.UpdateProfile(c.Request.Context(), sess.UserID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.issueTokens(c, user); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, user)
}

func (s *Server) ChangePassword(c *gin.Context) {
	sess, err := currentSession(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req authdomain.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.authsvc.ChangePassword(c.Request.Context(), sess.UserID, req); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, nil)
}

// issueTokens signs a pair for user and writes both cookies.
func (s *Server) issueTokens(c *gin.Context, user *authdomain.User) error {
	pair, err := s.tokens.CreatePair(token.Identity{
		ID:                   user.ID,
		Email:                user.Email,
		ActiveOrganizationID: user.ActiveOrganizationID,
		FirstName:            user.FirstName,
		LastName:             user.LastName,
	})
	if err != nil {
		s.log.Error("failed to sign tokens", zap.String("user_id", user.ID.String()), zap.Error(err))
		return err
	}
	s.sessions.SetTokens(c, pair)
	return nil
}
