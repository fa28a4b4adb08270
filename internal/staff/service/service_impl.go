package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/apperr"
	auditdomain "github.com/smallbiznis/inkwell/internal/audit/domain"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"github.com/smallbiznis/inkwell/internal/staff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Users    authdomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	users    authdomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("staff.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		users:    p.Users,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Resolve(ctx context.Context, userID, orgID snowflake.ID) (*domain.Staff, error) {
	if orgID == 0 {
		return nil, apperr.NotFound(apperr.ResourceOrganization)
	}
	exists, err := s.repo.OrganizationExists(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(apperr.ResourceOrganization)
	}

	staff, err := s.repo.FindActive(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperr.ErrNotAllowedAccess
	}
	return staff, nil
}

func (s *Service) Add(ctx context.Context, actor orgcontext.Membership, req domain.AddStaffRequest) (*domain.Staff, error) {
	if err := validateAdd(req); err != nil {
		return nil, err
	}

	if !scope.IsRole(string(req.RoleID)) {
		return nil, apperr.NotFound(apperr.ResourceRole)
	}
	if _, err := s.repo.FindRole(ctx, req.RoleID); err != nil {
		return nil, err
	}
	if !scope.CanGrant(actor.Role, req.RoleID) {
		return nil, apperr.ErrNotAllowedAccess
	}
	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	exists, err := s.repo.OrganizationExists(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(apperr.ResourceOrganization)
	}
	if req.OrganizationID != actor.OrganizationID {
		return nil, apperr.ErrNotAllowedAccess
	}

	var staffID snowflake.ID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindAny(ctx, req.OrganizationID, req.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.DeletedAt.Valid {
				return apperr.Exists(apperr.ResourceStaff)
			}
			staffID = existing.ID
			return repo.Restore(ctx, existing.ID, req.RoleID)
		}

		now := s.clock.Now().UTC()
		staff := &domain.Staff{
			ID:             s.genID.Generate(),
			OrganizationID: req.OrganizationID,
			UserID:         req.UserID,
			RoleID:         req.RoleID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		staffID = staff.ID
		return repo.Create(ctx, staff)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, auditdomain.ActionStaffAdded, staffID, map[string]any{
		"user_id": req.UserID.String(),
		"role_id": string(req.RoleID),
	})
	s.log.Info("staff added",
		zap.String("org_id", req.OrganizationID.String()),
		zap.String("staff_id", staffID.String()),
		zap.String("role", string(req.RoleID)),
	)

	return s.repo.FindByID(ctx, req.OrganizationID, staffID)
}

func (s *Service) UpdateRole(ctx context.Context, actor orgcontext.Membership, staffID snowflake.ID, req domain.UpdateRoleRequest) (*domain.Staff, error) {
	if req.RoleID == "" {
		return nil, apperr.Invalid("role_id", "required", "role_id is required")
	}
	if !scope.IsRole(string(req.RoleID)) {
		return nil, apperr.NotFound(apperr.ResourceRole)
	}

	staff, err := s.guardTarget(ctx, actor, staffID)
	if err != nil {
		return nil, err
	}
	if !scope.CanGrant(actor.Role, req.RoleID) {
		return nil, apperr.ErrNotAllowedAccess
	}

	if err := s.repo.UpdateRole(ctx, staff.ID, req.RoleID); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, auditdomain.ActionStaffRoleChanged, staff.ID, map[string]any{
		"user_id": staff.UserID.String(),
		"from":    string(staff.RoleID),
		"to":      string(req.RoleID),
	})

	return s.repo.FindByID(ctx, actor.OrganizationID, staff.ID)
}

func (s *Service) Remove(ctx context.Context, actor orgcontext.Membership, staffID snowflake.ID) error {
	staff, err := s.guardTarget(ctx, actor, staffID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, staff.ID); err != nil {
		return err
	}

	s.audit(ctx, actor, auditdomain.ActionStaffRemoved, staff.ID, map[string]any{
		"user_id": staff.UserID.String(),
		"role_id": string(staff.RoleID),
	})
	return nil
}

func (s *Service) List(ctx context.Context, orgID snowflake.ID) ([]domain.Staff, error) {
	items, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Staff{}
	}
	return items, nil
}

// guardTarget loads a staff row of the actor's organization that the actor
// may manage: never their own row, and admin-level rows only for super_admin.
func (s *Service) guardTarget(ctx context.Context, actor orgcontext.Membership, staffID snowflake.ID) (*domain.Staff, error) {
	staff, err := s.repo.FindByID(ctx, actor.OrganizationID, staffID)
	if err != nil {
		return nil, err
	}
	if staff.UserID == actor.UserID {
		return nil, apperr.ErrNotAllowedAccess
	}
	if !scope.CanGrant(actor.Role, staff.RoleID) {
		return nil, apperr.ErrNotAllowedAccess
	}
	return staff, nil
}

func (s *Service) audit(ctx context.Context, actor orgcontext.Membership, action string, staffID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	orgID := actor.OrganizationID
	err := s.auditSvc.AuditLog(ctx, auditdomain.Entry{
		OrgID:      &orgID,
		ActorType:  auditdomain.ActorTypeUser,
		ActorID:    actor.UserID.String(),
		Action:     action,
		TargetType: "staff",
		TargetID:   staffID.String(),
		Metadata:   metadata,
	})
	if err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func validateAdd(req domain.AddStaffRequest) error {
	var fields []apperr.FieldError
	if req.UserID == 0 {
		fields = append(fields, apperr.FieldError{Field: "user_id", Code: "required", Message: "user_id is required"})
	}
	if req.RoleID == "" {
		fields = append(fields, apperr.FieldError{Field: "role_id", Code: "required", Message: "role_id is required"})
	}
	if req.OrganizationID == 0 {
		fields = append(fields, apperr.FieldError{Field: "organization_id", Code: "required", Message: "organization_id is required"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
