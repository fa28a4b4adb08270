// Package domain contains the membership edge between users and organizations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"gorm.io/gorm"
)

// Role is the catalog row for one of the fixed roles. ID is the role name.
type Role struct {
	ID   scope.Role `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name string     `gorm:"type:varchar(64);not null" json:"name"`
}

// TableName sets the database table name.
func (Role) TableName() string { return "roles" }

// Staff binds a user to an organization with exactly one role.
// At most one row exists per (organization, user); removal is a soft delete.
type Staff struct {
	ID             snowflake.ID     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OrganizationID snowflake.ID     `gorm:"column:organization_id;not null;uniqueIndex:ux_staff_org_user,priority:1" json:"organization_id"`
	UserID         snowflake.ID     `gorm:"column:user_id;not null;index;uniqueIndex:ux_staff_org_user,priority:2" json:"user_id"`
	RoleID         scope.Role       `gorm:"column:role_id;type:varchar(32);not null" json:"role_id"`
	CreatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
	Role           *Role            `gorm:"foreignKey:RoleID;references:ID" json:"role,omitempty"`
	User           *authdomain.User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName sets the database table name.
func (Staff) TableName() string { return "staff" }
