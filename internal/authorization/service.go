package authorization

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/smallbiznis/inkwell/internal/apperr"
	auditdomain "github.com/smallbiznis/inkwell/internal/audit/domain"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	obscontext "github.com/smallbiznis/inkwell/internal/observability/context"
	"github.com/smallbiznis/inkwell/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service interface {
	// Authorize fails with apperr.ErrNotAllowedAccess when role does not hold requested.
	Authorize(ctx context.Context, role scope.Role, requested scope.Scope) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	Metrics  *metrics.Metrics    `optional:"true"`
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	metrics  *metrics.Metrics
	auditSvc auditdomain.Service
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		metrics:  p.Metrics,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role scope.Role, requested scope.Scope) error {
	allowed, err := s.decide(role, requested)
	if err != nil {
		return err
	}

	s.log.Debug("authorization decision",
		zap.String("role", string(role)),
		zap.String("scope", string(requested)),
		zap.Bool("allowed", allowed),
	)
	s.metrics.RecordAuthzDecision(ctx, string(role), requested.Module(), allowed)

	if !allowed {
		s.auditDenied(ctx, role, requested)
		return apperr.ErrNotAllowedAccess
	}
	return nil
}

func (s *ServiceImpl) decide(role scope.Role, requested scope.Scope) (bool, error) {
	if !scope.IsRole(string(role)) {
		return false, nil
	}
	if strings.TrimSpace(string(requested)) == "" {
		return false, nil
	}
	return s.enforcer.Enforce(string(role), string(requested))
}

func (s *ServiceImpl) auditDenied(ctx context.Context, role scope.Role, requested scope.Scope) {
	if s.auditSvc == nil {
		return
	}

	entry := auditdomain.Entry{
		Action:     auditdomain.ActionAuthorizationDenied,
		TargetType: "authorization",
		TargetID:   string(requested),
		Metadata: map[string]any{
			"role":  string(role),
			"scope": string(requested),
		},
	}
	if raw := obscontext.OrgIDFromContext(ctx); raw != "" {
		if orgID, err := snowflake.ParseString(raw); err == nil && orgID != 0 {
			entry.OrgID = &orgID
		}
	}
	if err := s.auditSvc.AuditLog(ctx, entry); err != nil {
		s.log.Warn("failed to audit authorization denial", zap.Error(err))
	}
}
