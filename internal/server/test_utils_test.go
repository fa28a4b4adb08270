package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/inkwell/internal/apperr"
	auditrepo "github.com/smallbiznis/inkwell/internal/audit/repository"
	auditservice "github.com/smallbiznis/inkwell/internal/audit/service"
	authrepo "github.com/smallbiznis/inkwell/internal/auth/repository"
	authservice "github.com/smallbiznis/inkwell/internal/auth/service"
	"github.com/smallbiznis/inkwell/internal/auth/session"
	"github.com/smallbiznis/inkwell/internal/auth/token"
	"github.com/smallbiznis/inkwell/internal/authorization"
	blogdomain "github.com/smallbiznis/inkwell/internal/blog/domain"
	blogservice "github.com/smallbiznis/inkwell/internal/blog/service"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/config"
	"github.com/smallbiznis/inkwell/internal/migration"
	"github.com/smallbiznis/inkwell/internal/observability"
	orgrepo "github.com/smallbiznis/inkwell/internal/organization/repository"
	orgservice "github.com/smallbiznis/inkwell/internal/organization/service"
	"github.com/smallbiznis/inkwell/internal/ratelimit"
	"github.com/smallbiznis/inkwell/internal/seed"
	staffrepo "github.com/smallbiznis/inkwell/internal/staff/repository"
	staffservice "github.com/smallbiznis/inkwell/internal/staff/service"
	"github.com/smallbiznis/inkwell/pkg/db"
	"github.com/smallbiznis/inkwell/pkg/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "Password@123"

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

type envelope struct {
	Status  bool `json:"status"`
	Content struct {
		Data json.RawMessage `json:"data"`
	} `json:"content"`
	Error struct {
		Type     string              `json:"type"`
		Message  string              `json:"message"`
		Resource string              `json:"resource"`
		Errors   []apperr.FieldError `json:"errors"`
	} `json:"error"`
}

type idOnly struct {
	ID snowflake.ID `json:"id"`
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := migration.Apply(conn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := seed.EnsureRoles(conn); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}

	cfg := config.Config{
		Environment:         "test",
		AuthJWTSecret:       "test-secret",
		AuthJWTIssuer:       "inkwell",
		SignInRatePerSecond: 0.01,
		SignInBurst:         5,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	log := zap.NewNop()
	clk := clock.SystemClock{}

	tokens, err := token.New(token.Options{Secret: cfg.AuthJWTSecret, Issuer: cfg.AuthJWTIssuer}, clk)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	sessions := session.NewManager(cfg, config.NewStaticSessionConfigHolder(config.DefaultSessionConfig()), tokens)

	auditSvc := auditservice.NewService(auditservice.Params{
		DB: conn, Log: log, GenID: node, Clock: clk, Repo: auditrepo.Provide(),
	})
	enforcer, err := authorization.NewEnforcer()
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}
	authzSvc := authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer, AuditSvc: auditSvc})

	users := authrepo.New(conn)
	staffRepo := staffrepo.NewRepository(conn)
	accounts := authservice.New(authservice.Params{
		Log: log, GenID: node, Clock: clk, Repo: users, Audit: auditSvc,
	})

	engine, err := NewEngine(cfg, observability.Config{Environment: "test"}, nil)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	NewServer(ServerParams{
		Gin:      engine,
		Cfg:      cfg,
		Log:      log,
		Sessions: sessions,
		Tokens:   tokens,
		AuthzSvc: authzSvc,
		AuditSvc: auditSvc,
		Authsvc:  accounts,
		StaffSvc: staffservice.NewService(staffservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk, Repo: staffRepo, Users: users, AuditSvc: auditSvc,
		}),
		OrganizationSvc: orgservice.NewService(orgservice.Params{
			DB: conn, Log: log, GenID: node, Clock: clk,
			Repo: orgrepo.NewRepository(conn), StaffRepo: staffRepo, Users: users, Accounts: accounts, AuditSvc: auditSvc,
		}),
		BlogSvc: blogservice.NewService(blogservice.Params{
			Log: log, GenID: node, Clock: clk,
			Blogs:    repository.ProvideStore[blogdomain.Blog](conn),
			Comments: repository.ProvideStore[blogdomain.Comment](conn),
			Reviews:  repository.ProvideStore[blogdomain.Review](conn),
		}),
		SignInLimiter: ratelimit.NewSignInLimiter(ratelimit.SignInParams{Config: cfg, Log: log, Clock: clk}),
	})

	return &testServer{t: t, db: conn, engine: engine}
}

// do sends a JSON request with the given cookies and optional X-Org header.
func (s *testServer) do(method, path string, body any, cookies []*http.Cookie, orgID snowflake.ID) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if orgID != 0 {
		req.Header.Set(HeaderOrg, orgID.String())
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decode(t, rec)
	if !env.Status {
		t.Fatalf("expected success, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(env.Content.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// signUp registers email and returns the user id with the issued cookies.
func (s *testServer) signUp(email string) (snowflake.ID, []*http.Cookie) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/v1/auth/signup", map[string]string{
		"email":    email,
		"password": testPassword,
	}, nil, 0)
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("sign up %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var user idOnly
	decodeData(s.t, rec, &user)
	return user.ID, rec.Result().Cookies()
}

// createOrganization returns the organization id and the reissued cookies.
func (s *testServer) createOrganization(cookies []*http.Cookie, name string) (snowflake.ID, []*http.Cookie) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/v1/organization", map[string]string{"name": name}, cookies, 0)
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("create organization: %d %s", rec.Code, rec.Body.String())
	}
	var org idOnly
	decodeData(s.t, rec, &org)
	return org.ID, rec.Result().Cookies()
}

func (s *testServer) addStaff(cookies []*http.Cookie, orgID, userID snowflake.ID, role string) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(http.MethodPost, "/v1/staff", map[string]any{
		"user_id":         userID.String(),
		"role_id":         role,
		"organization_id": orgID.String(),
	}, cookies, orgID)
}

func (s *testServer) createBlog(cookies []*http.Cookie, orgID snowflake.ID, title string) snowflake.ID {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/v1/blog", map[string]string{
		"title":   title,
		"content": "hello world",
	}, cookies, orgID)
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("create blog: %d %s", rec.Code, rec.Body.String())
	}
	var blog idOnly
	decodeData(s.t, rec, &blog)
	return blog.ID
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
