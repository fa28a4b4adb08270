// Package domain contains persistence models for the org service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	staffdomain "github.com/smallbiznis/inkwell/internal/staff/domain"
	"gorm.io/gorm"
)

const MaxNameLength = 32

// Organization represents a tenant.
type Organization struct {
	ID          snowflake.ID   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string         `gorm:"type:varchar(32);not null" json:"name"`
	Slug        string         `gorm:"type:varchar(64);not null;index" json:"slug"`
	CreatedByID snowflake.ID   `gorm:"column:created_by_id;not null;index" json:"created_by_id"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// OrganizationWithStaff is an organization together with the caller's membership.
type OrganizationWithStaff struct {
	Organization
	Staff *staffdomain.Staff `json:"staff"`
}
