// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const MaxNameLength = 50

// User represents a platform account. PasswordHash never leaves the service.
type User struct {
	ID                   snowflake.ID  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Email                string        `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	FirstName            string        `gorm:"column:first_name;type:varchar(50)" json:"first_name"`
	LastName             string        `gorm:"column:last_name;type:varchar(50)" json:"last_name"`
	PasswordHash         string        `gorm:"column:password_hash;type:text;not null" json:"-"`
	ActiveOrganizationID *snowflake.ID `gorm:"column:active_organization_id" json:"active_organization_id"`
	CreatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
