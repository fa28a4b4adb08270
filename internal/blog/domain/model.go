// Package domain contains the blog content tables. Every row is owned by one organization.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	MaxTitleLength   = 32
	MaxContentLength = 1024
)

type Blog struct {
	ID               snowflake.ID   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OrganizationID   snowflake.ID   `gorm:"column:organization_id;not null;index" json:"organization_id"`
	CreatedByStaffID snowflake.ID   `gorm:"column:created_by_staff_id;not null" json:"created_by_staff_id"`
	Title            string         `gorm:"type:varchar(32);not null" json:"title"`
	Content          string         `gorm:"type:varchar(1024);not null" json:"content"`
	Published        bool           `gorm:"not null;default:false" json:"published"`
	PublishedAt      *time.Time     `json:"published_at"`
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Blog) TableName() string { return "blogs" }

type Comment struct {
	ID              snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BlogID          snowflake.ID `gorm:"column:blog_id;not null;index" json:"blog_id"`
	OrganizationID  snowflake.ID `gorm:"column:organization_id;not null;index" json:"organization_id"`
	CreatedByUserID snowflake.ID `gorm:"column:created_by_user_id;not null" json:"created_by_user_id"`
	Content         string       `gorm:"type:varchar(1024);not null" json:"content"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Comment) TableName() string { return "blog_comments" }

type Review struct {
	ID               snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BlogID           snowflake.ID `gorm:"column:blog_id;not null;index" json:"blog_id"`
	OrganizationID   snowflake.ID `gorm:"column:organization_id;not null;index" json:"organization_id"`
	CreatedByStaffID snowflake.ID `gorm:"column:created_by_staff_id;not null" json:"created_by_staff_id"`
	Content          string       `gorm:"type:varchar(1024);not null" json:"content"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Review) TableName() string { return "blog_reviews" }
