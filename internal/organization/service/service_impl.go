package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/inkwell/internal/apperr"
	auditdomain "github.com/smallbiznis/inkwell/internal/audit/domain"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/organization/domain"
	staffdomain "github.com/smallbiznis/inkwell/internal/staff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	StaffRepo staffdomain.Repository
	Users     authdomain.Repository
	Accounts  authdomain.Service
	AuditSvc  auditdomain.Service `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	staffRepo staffdomain.Repository
	users     authdomain.Repository
	accounts  authdomain.Service
	auditSvc  auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("organization.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		staffRepo: p.StaffRepo,
		users:     p.Users,
		accounts:  p.Accounts,
		auditSvc:  p.AuditSvc,
	}
}

func (s *service) Create(ctx context.Context, creatorID snowflake.ID, req domain.CreateOrganizationRequest) (*domain.OrganizationWithStaff, error) {
	if creatorID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	org := domain.Organization{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		CreatedByID: creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := staffdomain.Staff{
		ID:             s.genID.Generate(),
		OrganizationID: org.ID,
		UserID:         creatorID,
		RoleID:         scope.RoleSuperAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateOrganization(ctx, &org); err != nil {
			return err
		}
		if err := s.staffRepo.WithTx(tx).Create(ctx, &owner); err != nil {
			return err
		}
		return s.users.WithTx(tx).UpdateFields(ctx, creatorID, map[string]any{
			"active_organization_id": org.ID,
			"updated_at":             now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, creatorID, org.ID, auditdomain.ActionOrganizationCreated, map[string]any{
		"name": org.Name,
	})
	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("user_id", creatorID.String()),
	)

	staff, err := s.staffRepo.FindByID(ctx, org.ID, owner.ID)
	if err != nil {
		return nil, err
	}
	return &domain.OrganizationWithStaff{Organization: org, Staff: staff}, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	if id == 0 {
		return nil, apperr.NotFound(apperr.ResourceOrganization)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]domain.Organization, error) {
	if userID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	items, err := s.repo.ListOrganizationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Organization{}
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, userID, id snowflake.ID, req domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]any{
		"name":       name,
		"slug":       slug.Make(name),
		"updated_at": s.clock.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	s.audit(ctx, userID, id, auditdomain.ActionOrganizationUpdated, map[string]any{"name": name})
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, userID, id, auditdomain.ActionOrganizationDeleted, nil)
	return nil
}

func (s *service) Switch(ctx context.Context, userID, id snowflake.ID) (*domain.OrganizationWithStaff, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member, err := s.staffRepo.FindActive(ctx, org.ID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperr.ErrNotAllowedAccess
	}

	if _, err := s.accounts.SetActiveOrganization(ctx, userID, org.ID); err != nil {
		return nil, err
	}

	s.audit(ctx, userID, org.ID, auditdomain.ActionOrganizationSwitched, map[string]any{
		"role_id": string(member.RoleID),
	})

	staff, err := s.staffRepo.FindByID(ctx, org.ID, member.ID)
	if err != nil {
		return nil, err
	}
	return &domain.OrganizationWithStaff{Organization: *org, Staff: staff}, nil
}

func (s *service) audit(ctx context.Context, userID, orgID snowflake.ID, action string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	err := s.auditSvc.AuditLog(ctx, auditdomain.Entry{
		OrgID:      &orgID,
		ActorType:  auditdomain.ActorTypeUser,
		ActorID:    userID.String(),
		Action:     action,
		TargetType: "organization",
		TargetID:   orgID.String(),
		Metadata:   metadata,
	})
	if err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperr.Invalid("name", "required", "name is required")
	}
	if len(name) > domain.MaxNameLength {
		return "", apperr.Invalid("name", "max", "name must be at most 32 characters")
	}
	return name, nil
}
