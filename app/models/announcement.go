package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	AnnouncementTypeEvent       = "event"
	AnnouncementTypeUpdate      = "update"
	AnnouncementTypeMaintenance = "maintenance"
)

// Announcement is a companion table backing the server news feed on the
// landing page and user dashboard.
type Announcement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type" validate:"oneof=event update maintenance"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description string    `gorm:"type:text;not null" json:"description" validate:"required,max=1000"`
	Priority    int       `gorm:"not null;default:0;index" json:"priority" validate:"min=0,max=999"`
	CreatedBy   string    `gorm:"type:varchar(13)" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) Validate() error {
	v := validator.New()

	return v.Struct(a)
}
