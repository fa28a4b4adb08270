package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/config"
)

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/health", nil, nil, 0)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignUpSetsCookiesAndHidesPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/v1/auth/signup", map[string]string{
		"email":    " A@X.com ",
		"password": testPassword,
	}, nil, 0)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user map[string]any
	decodeData(t, rec, &user)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, rec.Body.String(), testPassword)

	cookies := rec.Result().Cookies()
	access := cookieByName(cookies, "test_access_token")
	refresh := cookieByName(cookies, "test_refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.Greater(t, refresh.MaxAge, access.MaxAge)
}

func TestSignUpErrors(t *testing.T) {
	srv := newTestServer(t)
	srv.signUp("a@x.com")

	rec := srv.do(http.MethodPost, "/v1/auth/signup", map[string]string{
		"email":    "A@x.com",
		"password": testPassword,
	}, nil, 0)
	require.Equal(t, http.StatusConflict, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Status)
	assert.Equal(t, string(apperr.KindExists), env.Error.Type)
	assert.Equal(t, apperr.ResourceEmail, env.Error.Resource)

	rec = srv.do(http.MethodPost, "/v1/auth/signup", map[string]string{"email": "nope"}, nil, 0)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec)
	assert.Equal(t, string(apperr.KindValidation), env.Error.Type)
	fields := make([]string, 0, len(env.Error.Errors))
	for _, f := range env.Error.Errors {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password"}, fields)

	rec = srv.do(http.MethodPost, "/v1/auth/signup", "{not json", nil, 0)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env = decode(t, rec)
	require.Len(t, env.Error.Errors, 1)
	assert.Equal(t, "request", env.Error.Errors[0].Field)
}

func TestSignInAndMe(t *testing.T) {
	srv := newTestServer(t)
	userID, _ := srv.signUp("bob@example.com")

	rec := srv.do(http.MethodPost, "/v1/auth/signin", map[string]string{
		"email": "bob@example.com", "password": "Wrong@1234",
	}, nil, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.KindInvalidCredentials), decode(t, rec).Error.Type)

	rec = srv.do(http.MethodPost, "/v1/auth/signin", map[string]string{
		"email": "ghost@example.com", "password": testPassword,
	}, nil, 0)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.ResourceUser, decode(t, rec).Error.Resource)

	rec = srv.do(http.MethodPost, "/v1/auth/signin", map[string]string{
		"email": "BOB@example.com", "password": testPassword,
	}, nil, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()

	rec = srv.do(http.MethodGet, "/v1/auth/me", nil, cookies, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		ID                   snowflake.ID  `json:"id"`
		Email                string        `json:"email"`
		ActiveOrganizationID *snowflake.ID `json:"active_organization_id"`
	}
	decodeData(t, rec, &me)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "bob@example.com", me.Email)
	assert.Nil(t, me.ActiveOrganizationID)
}

func TestMeRequiresValidToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/v1/auth/me", nil, nil, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, string(apperr.KindUnauthenticated), decode(t, rec).Error.Type)

	bad := []*http.Cookie{{Name: "test_access_token", Value: "not-a-jwt"}}
	rec = srv.do(http.MethodGet, "/v1/auth/me", nil, bad, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignInRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.SignInRatePerSecond = 0.001
		cfg.SignInBurst = 2
	})
	srv.signUp("carol@example.com")

	body := map[string]string{"email": "carol@example.com", "password": "Wrong@1234"}
	for i := 0; i < 2; i++ {
		rec := srv.do(http.MethodPost, "/v1/auth/signin", body, nil, 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := srv.do(http.MethodPost, "/v1/auth/signin", body, nil, 0)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode(t, rec).Error.Type)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

// signInFrom posts a failed sign-in from remoteAddr with a forwarded-for header.
func (s *testServer) signInFrom(remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	s.t.Helper()
	body := `{"email":"carol@example.com","password":"Wrong@1234"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func TestSignInRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.SignInRatePerSecond = 0.001
		cfg.SignInBurst = 2
	})
	srv.signUp("carol@example.com")

	throttled := 0
	for i := 1; i <= 20; i++ {
		rec := srv.signInFrom("203.0.113.7:4000", fmt.Sprintf("10.0.0.%d", i))
		if rec.Code == http.StatusTooManyRequests {
			throttled++
		}
	}
	assert.Equal(t, 18, throttled)
}

func TestSignInRateLimitHonoursTrustedProxy(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) {
		cfg.SignInRatePerSecond = 0.001
		cfg.SignInBurst = 2
		cfg.TrustedProxies = []string{"203.0.113.7"}
	})
	srv.signUp("carol@example.com")

	for i := 1; i <= 5; i++ {
		rec := srv.signInFrom("203.0.113.7:4000", fmt.Sprintf("10.0.0.%d", i))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	srv.signInFrom("203.0.113.7:4000", "10.0.0.9")
	srv.signInFrom("203.0.113.7:4000", "10.0.0.9")
	rec := srv.signInFrom("203.0.113.7:4000", "10.0.0.9")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	srv := newTestServer(t)
	_, cookies := srv.signUp("frank@example.com")
	access := cookieByName(cookies, "test_access_token")
	refresh := cookieByName(cookies, "test_refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)

	asAccess := []*http.Cookie{{Name: "test_access_token", Value: refresh.Value}}
	rec := srv.do(http.MethodGet, "/v1/auth/me", nil, asAccess, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	asRefresh := []*http.Cookie{{Name: "test_refresh_token", Value: access.Value}}
	rec = srv.do(http.MethodPost, "/v1/auth/refresh", nil, asRefresh, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignOutClearsCookies(t *testing.T) {
	srv := newTestServer(t)
	_, cookies := srv.signUp("dave@example.com")

	rec := srv.do(http.MethodPost, "/v1/auth/signout", nil, cookies, 0)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := rec.Result().Cookies()
	for _, name := range []string{"test_access_token", "test_refresh_token"} {
		c := cookieByName(cleared, name)
		require.NotNil(t, c, name)
		assert.Less(t, c.MaxAge, 0, name)
	}
}

func TestRefreshAndProfile(t *testing.T) {
	srv := newTestServer(t)
	_, cookies := srv.signUp("erin@example.com")

	rec := srv.do(http.MethodPut, "/v1/auth/me", map[string]string{"first_name": "Erin"}, cookies, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies = rec.Result().Cookies()

	rec = srv.do(http.MethodGet, "/v1/auth/me", nil, cookies, 0)
	var me struct {
		FirstName string `json:"first_name"`
	}
	decodeData(t, rec, &me)
	assert.Equal(t, "Erin", me.FirstName)

	refresh := cookieByName(cookies, "test_refresh_token")
	require.NotNil(t, refresh)
	rec = srv.do(http.MethodPost, "/v1/auth/refresh", nil, []*http.Cookie{refresh}, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, cookieByName(rec.Result().Cookies(), "test_access_token"))

	rec = srv.do(http.MethodPost, "/v1/auth/refresh", nil, nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodPut, "/v1/auth/password", map[string]string{
		"current_password": testPassword,
		"new_password":     "Another@456",
	}, cookies, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodPost, "/v1/auth/signin", map[string]string{
		"email": "erin@example.com", "password": "Another@456",
	}, nil, 0)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateOrganizationUpdatesSession(t *testing.T) {
	srv := newTestServer(t)
	_, cookies := srv.signUp("owner@example.com")

	rec := srv.do(http.MethodPost, "/v1/organization", map[string]string{"name": "Acme"}, cookies, 0)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var org struct {
		ID    snowflake.ID `json:"id"`
		Name  string       `json:"name"`
		Staff struct {
			RoleID string `json:"role_id"`
		} `json:"staff"`
	}
	decodeData(t, rec, &org)
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, "super_admin", org.Staff.RoleID)

	rec = srv.do(http.MethodGet, "/v1/auth/me", nil, rec.Result().Cookies(), 0)
	var me struct {
		ActiveOrganizationID *snowflake.ID `json:"active_organization_id"`
	}
	decodeData(t, rec, &me)
	require.NotNil(t, me.ActiveOrganizationID)
	assert.Equal(t, org.ID, *me.ActiveOrganizationID)

	rec = srv.do(http.MethodPost, "/v1/organization", map[string]string{"name": strings.Repeat("x", 33)}, cookies, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrganizationRoutes(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	path := "/v1/organization/" + orgID.String()

	rec := srv.do(http.MethodGet, path, nil, owner, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodPut, path, map[string]string{"name": "Acme Blog"}, owner, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var org struct {
		Slug string `json:"slug"`
	}
	decodeData(t, rec, &org)
	assert.Equal(t, "acme-blog", org.Slug)

	rec = srv.do(http.MethodGet, "/v1/organization", nil, owner, 0)
	var orgs []idOnly
	decodeData(t, rec, &orgs)
	require.Len(t, orgs, 1)
	assert.Equal(t, orgID, orgs[0].ID)

	rec = srv.do(http.MethodGet, path+"/audit-logs", nil, owner, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var logs struct {
		AuditLogs []struct {
			Action string `json:"action"`
		} `json:"audit_logs"`
	}
	decodeData(t, rec, &logs)
	actions := make([]string, 0, len(logs.AuditLogs))
	for _, l := range logs.AuditLogs {
		actions = append(actions, l.Action)
	}
	assert.Contains(t, actions, "organization.created")

	rec = srv.do(http.MethodDelete, path, nil, owner, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = srv.do(http.MethodGet, path, nil, owner, 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginOrganization(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	strangerID, stranger := srv.signUp("stranger@example.com")

	rec := srv.do(http.MethodPost, "/v1/organization/"+orgID.String()+"/login", nil, stranger, 0)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperr.KindNotAllowed), decode(t, rec).Error.Type)

	rec = srv.addStaff(owner, orgID, strangerID, "user")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodPost, "/v1/organization/"+orgID.String()+"/login", nil, stranger, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var switched struct {
		ID    snowflake.ID `json:"id"`
		Staff struct {
			RoleID string `json:"role_id"`
			Role   struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"staff"`
	}
	decodeData(t, rec, &switched)
	assert.Equal(t, orgID, switched.ID)
	assert.Equal(t, "user", switched.Staff.RoleID)
	assert.Equal(t, "User", switched.Staff.Role.Name)

	rec = srv.do(http.MethodGet, "/v1/auth/me", nil, rec.Result().Cookies(), 0)
	var me struct {
		ActiveOrganizationID *snowflake.ID `json:"active_organization_id"`
	}
	decodeData(t, rec, &me)
	require.NotNil(t, me.ActiveOrganizationID)
	assert.Equal(t, orgID, *me.ActiveOrganizationID)
}

func TestScopeGateResolvesOrganization(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	_, other := srv.signUp("other@example.com")
	otherOrg, _ := srv.createOrganization(other, "Other")

	rec := srv.do(http.MethodGet, "/v1/staff", nil, owner, 0)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.ResourceOrganization, decode(t, rec).Error.Resource)

	rec = srv.do(http.MethodGet, "/v1/staff", nil, owner, snowflake.ID(987654321))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/staff", nil, owner, otherOrg)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/staff", nil, nil, orgID)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/staff", nil, owner, orgID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var staff []struct {
		RoleID string `json:"role_id"`
	}
	decodeData(t, rec, &staff)
	require.Len(t, staff, 1)
	assert.Equal(t, "super_admin", staff[0].RoleID)
}

func TestStaffLifecycle(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	adminID, admin := srv.signUp("admin@example.com")
	userID, _ := srv.signUp("user@example.com")

	candidatesPath := "/v1/user/" + orgID.String() + "/add-in-organization"
	rec := srv.do(http.MethodGet, candidatesPath+"?page_size=1", nil, owner, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var candidates struct {
		Users         []idOnly `json:"users"`
		HasMore       bool     `json:"has_more"`
		NextPageToken string   `json:"next_page_token"`
	}
	decodeData(t, rec, &candidates)
	require.Len(t, candidates.Users, 1)
	assert.True(t, candidates.HasMore)
	assert.Equal(t, userID, candidates.Users[0].ID)

	rec = srv.do(http.MethodGet, candidatesPath+"?page_size=1&page_token="+candidates.NextPageToken, nil, owner, 0)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &candidates)
	require.Len(t, candidates.Users, 1)
	assert.False(t, candidates.HasMore)
	assert.Equal(t, adminID, candidates.Users[0].ID)

	rec = srv.do(http.MethodGet, candidatesPath+"?page_token=garbage", nil, owner, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.addStaff(owner, orgID, adminID, "admin")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.addStaff(owner, orgID, adminID, "editor")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperr.ResourceStaff, decode(t, rec).Error.Resource)

	rec = srv.addStaff(admin, orgID, userID, "admin")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.addStaff(admin, orgID, userID, "owner")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.ResourceRole, decode(t, rec).Error.Resource)

	rec = srv.addStaff(admin, orgID, userID, "editor")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var added idOnly
	decodeData(t, rec, &added)

	staffPath := "/v1/staff/" + added.ID.String()
	rec = srv.do(http.MethodPut, staffPath, map[string]string{"role_id": "reviewer"}, admin, orgID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated struct {
		RoleID string `json:"role_id"`
	}
	decodeData(t, rec, &updated)
	assert.Equal(t, "reviewer", updated.RoleID)

	rec = srv.do(http.MethodDelete, staffPath, nil, admin, orgID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodDelete, staffPath, nil, admin, orgID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditorCannotPublish(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	editorID, editor := srv.signUp("editor@example.com")

	rec := srv.addStaff(owner, orgID, editorID, "editor")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	blogID := srv.createBlog(editor, orgID, "Draft")

	rec = srv.do(http.MethodPut, "/v1/blog/"+blogID.String()+"/publish", nil, editor, orgID)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperr.KindNotAllowed), decode(t, rec).Error.Type)

	rec = srv.do(http.MethodPut, "/v1/blog/"+blogID.String()+"/publish", nil, owner, orgID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var blog struct {
		Published bool `json:"published"`
	}
	decodeData(t, rec, &blog)
	assert.True(t, blog.Published)
}

func TestReviewerReviewsBlog(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	reviewerID, reviewer := srv.signUp("reviewer@example.com")

	rec := srv.addStaff(owner, orgID, reviewerID, "reviewer")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var staff idOnly
	decodeData(t, rec, &staff)

	blogID := srv.createBlog(owner, orgID, "Post")

	rec = srv.do(http.MethodPost, "/v1/blog/"+blogID.String()+"/review", map[string]string{"content": "looks good"}, reviewer, orgID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var review struct {
		BlogID           snowflake.ID `json:"blog_id"`
		CreatedByStaffID snowflake.ID `json:"created_by_staff_id"`
	}
	decodeData(t, rec, &review)
	assert.Equal(t, blogID, review.BlogID)
	assert.Equal(t, staff.ID, review.CreatedByStaffID)

	rec = srv.do(http.MethodGet, "/v1/blog/"+blogID.String()+"/reviews", nil, reviewer, orgID)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []idOnly
	decodeData(t, rec, &reviews)
	assert.Len(t, reviews, 1)

	rec = srv.do(http.MethodPost, "/v1/blog", map[string]string{"title": "x", "content": "y"}, reviewer, orgID)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBlogRoutes(t *testing.T) {
	srv := newTestServer(t)
	_, owner := srv.signUp("owner@example.com")
	orgID, owner := srv.createOrganization(owner, "Acme")
	_, other := srv.signUp("other@example.com")
	otherOrg, other := srv.createOrganization(other, "Other")

	blogID := srv.createBlog(owner, orgID, "First")
	srv.createBlog(owner, orgID, "Second")
	path := "/v1/blog/" + blogID.String()

	rec := srv.do(http.MethodPut, path+"/update", map[string]string{"title": "Renamed"}, owner, orgID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(http.MethodGet, path, nil, other, otherOrg)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.ResourceBlog, decode(t, rec).Error.Resource)

	rec = srv.do(http.MethodPost, path+"/comment", map[string]string{"content": "nice"}, owner, orgID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = srv.do(http.MethodGet, path+"/comments", nil, owner, orgID)
	var comments []idOnly
	decodeData(t, rec, &comments)
	assert.Len(t, comments, 1)

	rec = srv.do(http.MethodGet, "/v1/blog?page_size=1", nil, owner, orgID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Blogs         []idOnly `json:"blogs"`
		HasMore       bool     `json:"has_more"`
		NextPageToken string   `json:"next_page_token"`
	}
	decodeData(t, rec, &page)
	assert.Len(t, page.Blogs, 1)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextPageToken)

	rec = srv.do(http.MethodGet, "/v1/blog?page_size=1000", nil, owner, orgID)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotEmpty(t, env.Error.Errors)
	assert.Equal(t, "page_size", env.Error.Errors[0].Field)

	rec = srv.do(http.MethodPut, path+"/un-publish", nil, owner, orgID)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodDelete, path, nil, owner, orgID)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(http.MethodGet, path, nil, owner, orgID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/blog/abc", nil, owner, orgID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
