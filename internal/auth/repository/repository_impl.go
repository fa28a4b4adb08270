package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/pkg/db"
	"github.com/smallbiznis/inkwell/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(conn *gorm.DB) domain.Repository {
	return &repo{db: conn}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	if tx == nil {
		return r
	}
	return &repo{db: tx}
}

func (r *repo) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if db.IsDuplicateKeyErr(err) {
		return apperr.Exists(apperr.ResourceEmail)
	}
	return err
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if db.IsNotFoundErr(err) {
		return nil, apperr.NotFound(apperr.ResourceUser)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail expects email to be normalized already.
func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if db.IsNotFoundErr(err) {
		return nil, apperr.NotFound(apperr.ResourceUser)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFound(apperr.ResourceUser)
	}
	return nil
}

func (r *repo) ListNotInOrganization(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]*domain.User, error) {
	members := r.db.Table("staff").
		Select("user_id").
		Where("organization_id = ? AND deleted_at IS NULL", orgID)

	stmt := r.db.WithContext(ctx).Where("id NOT IN (?)", members)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}

	var users []*domain.User
	if err := stmt.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
