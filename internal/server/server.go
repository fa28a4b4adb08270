package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/inkwell/internal/audit"
	auditdomain "github.com/smallbiznis/inkwell/internal/audit/domain"
	"github.com/smallbiznis/inkwell/internal/auth"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/auth/session"
	"github.com/smallbiznis/inkwell/internal/auth/token"
	"github.com/smallbiznis/inkwell/internal/authorization"
	"github.com/smallbiznis/inkwell/internal/blog"
	blogdomain "github.com/smallbiznis/inkwell/internal/blog/domain"
	"github.com/smallbiznis/inkwell/internal/config"
	"github.com/smallbiznis/inkwell/internal/observability"
	obslogger "github.com/smallbiznis/inkwell/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/inkwell/internal/observability/metrics"
	obstracing "github.com/smallbiznis/inkwell/internal/observability/tracing"
	"github.com/smallbiznis/inkwell/internal/organization"
	organizationdomain "github.com/smallbiznis/inkwell/internal/organization/domain"
	"github.com/smallbiznis/inkwell/internal/ratelimit"
	"github.com/smallbiznis/inkwell/internal/staff"
	staffdomain "github.com/smallbiznis/inkwell/internal/staff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Services bundles the domain modules the HTTP surface depends on.
var Services = fx.Options(
	authorization.Module,
	audit.Module,
	auth.Module,
	staff.Module,
	organization.Module,
	blog.Module,
	ratelimit.Module,
)

var Module = fx.Module("http.server",
	Services,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine. Forwarding headers are honoured only from
// TRUSTED_PROXIES; with none configured the client IP is the peer address.
func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		status, payload := mapError(nil)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}))
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", HeaderOrg, "X-Request-Id"},
			ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r, nil
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	authsvc         authdomain.Service
	sessions        *session.Manager
	tokens          *token.Manager
	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	staffSvc        staffdomain.Service
	organizationSvc organizationdomain.Service
	blogSvc         blogdomain.Service
	signInLimiter   *ratelimit.SignInLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	Tokens          *token.Manager
	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service
	StaffSvc        staffdomain.Service
	OrganizationSvc organizationdomain.Service
	BlogSvc         blogdomain.Service
	SignInLimiter   *ratelimit.SignInLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		tokens:          p.Tokens,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		staffSvc:        p.StaffSvc,
		organizationSvc: p.OrganizationSvc,
		blogSvc:         p.BlogSvc,
		signInLimiter:   p.SignInLimiter,
	}

	v1 := svc.engine.Group("/v1", svc.SessionContext())
	svc.registerAuthRoutes(v1)
	svc.registerOrganizationRoutes(v1)
	svc.registerStaffRoutes(v1)
	svc.registerBlogRoutes(v1)

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes(v1 *gin.RouterGroup) {
	auth := v1.Group("/auth")

	auth.POST("/signup", s.SignUp)
	auth.POST("/signin", s.SignInRateLimit(), s.SignIn)
	auth.POST("/refresh", s.Refresh)
	auth.POST("/signout", s.SignOut)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.PUT("/me", s.AuthRequired(), s.UpdateMe)
	auth.PUT("/password", s.AuthRequired(), s.ChangePassword)
}

func (s *Server) registerOrganizationRoutes(v1 *gin.RouterGroup) {
	org := v1.Group("/organization", s.AuthRequired())
	fromPath := OrgFromParam("id")

	org.POST("", s.CreateOrganization)
	org.GET("", s.ListOrganizations)
	org.GET("/:id", s.RequireScope(scope.OrganizationRead, fromPath), s.GetOrganization)
	org.PUT("/:id", s.RequireScope(scope.OrganizationUpdate, fromPath), s.UpdateOrganization)
	org.DELETE("/:id", s.RequireScope(scope.OrganizationDelete, fromPath), s.DeleteOrganization)
	org.POST("/:id/login", s.LoginOrganization)
	org.GET("/:id/audit-logs", s.RequireScope(scope.OrganizationRead, fromPath), s.ListAuditLogs)
}

func (s *Server) registerStaffRoutes(v1 *gin.RouterGroup) {
	staff := v1.Group("/staff", s.AuthRequired())

	staff.POST("", s.RequireScope(scope.StaffCreate), s.AddStaff)
	staff.GET("", s.RequireScope(scope.StaffRead), s.ListStaff)
	staff.PUT("/:id", s.RequireScope(scope.StaffUpdate), s.UpdateStaffRole)
	staff.DELETE("/:id", s.RequireScope(scope.StaffRemove), s.RemoveStaff)

	v1.GET("/user/:organization_id/add-in-organization",
		s.AuthRequired(),
		s.RequireScope(scope.StaffRead, OrgFromParam("organization_id")),
		s.ListCandidates,
	)
}

func (s *Server) registerBlogRoutes(v1 *gin.RouterGroup) {
	blog := v1.Group("/blog", s.AuthRequired())

	blog.POST("", s.RequireScope(scope.BlogCreate), s.CreateBlog)
	blog.GET("", s.RequireScope(scope.BlogRead), s.ListBlogs)
	blog.GET("/:id", s.RequireScope(scope.BlogRead), s.GetBlog)
	blog.PUT("/:id/update", s.RequireScope(scope.BlogUpdate), s.UpdateBlog)
	blog.PUT("/:id/publish", s.RequireScope(scope.BlogPublish), s.PublishBlog)
	blog.PUT("/:id/un-publish", s.RequireScope(scope.BlogUnpublish), s.UnpublishBlog)
	blog.DELETE("/:id", s.RequireScope(scope.BlogDelete), s.DeleteBlog)
	blog.POST("/:id/comment", s.RequireScope(scope.BlogComment), s.CommentBlog)
	blog.GET("/:id/comments", s.RequireScope(scope.BlogRead), s.ListBlogComments)
	blog.POST("/:id/review", s.RequireScope(scope.BlogReview), s.ReviewBlog)
	blog.GET("/:id/reviews", s.RequireScope(scope.BlogRead), s.ListBlogReviews)
}
