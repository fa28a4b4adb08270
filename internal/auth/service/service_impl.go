package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/inkwell/internal/apperr"
	auditdomain "github.com/smallbiznis/inkwell/internal/audit/domain"
	"github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/internal/auth/password"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/observability/metrics"
	"github.com/smallbiznis/inkwell/pkg/db/option"
	"github.com/smallbiznis/inkwell/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	reasonValidation         = "validation"
	reasonNotFound           = "not_found"
	reasonInvalidCredentials = "invalid_credentials"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Audit   auditdomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	audit    auditdomain.Service
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		audit:    p.Audit,
		metrics:  p.Metrics,
		validate: validator.New(),
	}
}

func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
	var fields []apperr.FieldError

	email, err := s.normalizeEmail(req.Email)
	if err != nil {
		fields = append(fields, emailFieldError(req.Email))
	}
	if fe, ok := passwordFieldError("password", req.Password); !ok {
		fields = append(fields, fe)
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	fields = append(fields, nameFieldErrors(firstName, lastName)...)
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Exists(apperr.ResourceEmail)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.User, error) {
	email, err := s.normalizeEmail(req.Email)
	if err != nil {
		s.metrics.RecordSignIn(ctx, metrics.OutcomeFailure, reasonValidation)
		return nil, apperr.Validation(emailFieldError(req.Email))
	}
	if req.Password == "" {
		s.metrics.RecordSignIn(ctx, metrics.OutcomeFailure, reasonValidation)
		return nil, apperr.Invalid("password", "required", "password is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.signInFailed(ctx, email, nil, reasonNotFound)
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		s.signInFailed(ctx, email, user, reasonInvalidCredentials)
		return nil, apperr.ErrInvalidCredentials
	}

	s.metrics.RecordSignIn(ctx, metrics.OutcomeSuccess, "")
	return user, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	if id == 0 {
		return nil, apperr.NotFound(apperr.ResourceUser)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id snowflake.ID, req domain.UpdateProfileRequest) (*domain.User, error) {
	updates := map[string]any{}
	var fields []apperr.FieldError

	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if len(name) > domain.MaxNameLength {
			fields = append(fields, nameTooLong("first_name"))
		}
		updates["first_name"] = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if len(name) > domain.MaxNameLength {
			fields = append(fields, nameTooLong("last_name"))
		}
		updates["last_name"] = name
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}
	if len(updates) == 0 {
		return s.repo.FindByID(ctx, id)
	}

	updates["updated_at"] = s.clock.Now().UTC()
	if err := s.repo.UpdateFields(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ChangePassword(ctx context.Context, id snowflake.ID, req domain.ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return apperr.Invalid("current_password", "required", "current password is required")
	}
	if fe, ok := passwordFieldError("new_password", req.NewPassword); !ok {
		return apperr.Validation(fe)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		return apperr.ErrInvalidCredentials
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, map[string]any{
		"password_hash": hashed,
		"updated_at":    s.clock.Now().UTC(),
	})
}

func (s *Service) SetActiveOrganization(ctx context.Context, id snowflake.ID, orgID snowflake.ID) (*domain.User, error) {
	if err := s.repo.UpdateFields(ctx, id, map[string]any{
		"active_organization_id": orgID,
		"updated_at":             s.clock.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListCandidates pages through users without an active staff row in orgID,
// newest first.
func (s *Service) ListCandidates(ctx context.Context, orgID snowflake.ID, req domain.ListCandidatesRequest) (*domain.ListCandidatesResponse, error) {
	if orgID == 0 {
		return nil, apperr.NotFound(apperr.ResourceOrganization)
	}
	afterID, err := req.AfterID()
	if err != nil {
		return nil, apperr.Invalid("page_token", "invalid", "page_token is invalid")
	}
	limit := req.Limit()

	users, err := s.repo.ListNotInOrganization(ctx, orgID,
		option.WithIDBefore(afterID),
		option.WithSortBy("id", "desc"),
		option.WithLimit(limit+1),
	)
	if err != nil {
		return nil, err
	}

	users, info := pagination.BuildCursorPage(users, limit, func(u *domain.User) string {
		return u.ID.String()
	})
	if users == nil {
		users = []*domain.User{}
	}
	return &domain.ListCandidatesResponse{PageInfo: *info, Users: users}, nil
}

func (s *Service) signInFailed(ctx context.Context, email string, user *domain.User, reason string) {
	s.metrics.RecordSignIn(ctx, metrics.OutcomeFailure, reason)

	entry := auditdomain.Entry{
		ActorType:  auditdomain.ActorTypeSystem,
		Action:     auditdomain.ActionSignInFailed,
		TargetType: "user",
		Metadata:   map[string]any{"email": email, "reason": reason},
	}
	if user != nil {
		entry.TargetID = user.ID.String()
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.AuditLog(ctx, entry); err != nil {
		s.log.Warn("failed to audit sign-in failure", zap.Error(err))
	}
}

// normalizeEmail trims and lowercases before checking syntax.
func (s *Service) normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", err
	}
	return email, nil
}

func emailFieldError(raw string) apperr.FieldError {
	if strings.TrimSpace(raw) == "" {
		return apperr.FieldError{Field: "email", Code: "required", Message: "email is required"}
	}
	return apperr.FieldError{Field: "email", Code: "email", Message: "email must be a valid email address"}
}

func passwordFieldError(field, value string) (apperr.FieldError, bool) {
	if value == "" {
		return apperr.FieldError{Field: field, Code: "required", Message: "password is required"}, false
	}
	switch err := password.Validate(value); {
	case errors.Is(err, password.ErrTooShort):
		return apperr.FieldError{Field: field, Code: "min", Message: "password must be at least 8 characters"}, false
	case err != nil:
		return apperr.FieldError{
			Field:   field,
			Code:    "complex_password",
			Message: "password must contain an uppercase letter, a lowercase letter, a digit and one of " + password.Specials,
		}, false
	}
	return apperr.FieldError{}, true
}

func nameFieldErrors(first, last string) []apperr.FieldError {
	var fields []apperr.FieldError
	if len(first) > domain.MaxNameLength {
		fields = append(fields, nameTooLong("first_name"))
	}
	if len(last) > domain.MaxNameLength {
		fields = append(fields, nameTooLong("last_name"))
	}
	return fields
}

func nameTooLong(field string) apperr.FieldError {
	return apperr.FieldError{Field: field, Code: "max", Message: field + " must be at most 50 characters"}
}
