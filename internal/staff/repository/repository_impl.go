package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/inkwell/internal/apperr"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/staff/domain"
	"github.com/smallbiznis/inkwell/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) domain.Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, staff *domain.Staff) error {
	err := r.db.WithContext(ctx).Omit("Role", "User").Create(staff).Error
	if db.IsDuplicateKeyErr(err) {
		return apperr.Exists(apperr.ResourceStaff)
	}
	return err
}

func (r *repository) FindActive(ctx context.Context, orgID, userID snowflake.ID) (*domain.Staff, error) {
	var staff domain.Staff
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&staff).Error
	if db.IsNotFoundErr(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) FindAny(ctx context.Context, orgID, userID snowflake.ID) (*domain.Staff, error) {
	var staff domain.Staff
	err := r.db.WithContext(ctx).Unscoped().
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&staff).Error
	if db.IsNotFoundErr(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*domain.Staff, error) {
	var staff domain.Staff
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("User").
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&staff).Error
	if db.IsNotFoundErr(err) {
		return nil, apperr.NotFound(apperr.ResourceStaff)
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) Restore(ctx context.Context, id snowflake.ID, roleID scope.Role) error {
	return r.db.WithContext(ctx).Unscoped().
		Model(&domain.Staff{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"role_id":    roleID,
			"deleted_at": nil,
		}).Error
}

func (r *repository) UpdateRole(ctx context.Context, id snowflake.ID, roleID scope.Role) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Staff{}).
		Where("id = ?", id).
		Update("role_id", roleID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFound(apperr.ResourceStaff)
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Staff{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.NotFound(apperr.ResourceStaff)
	}
	return nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Staff, error) {
	var items []domain.Staff
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindRole(ctx context.Context, id scope.Role) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if db.IsNotFoundErr(err) {
		return nil, apperr.NotFound(apperr.ResourceRole)
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) OrganizationExists(ctx context.Context, orgID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("organizations").
		Where("id = ? AND deleted_at IS NULL", orgID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
