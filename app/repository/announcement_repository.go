package repository

import (
	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
)

// announcementRepository implements the AnnouncementRepository interface
type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository creates a new announcement repository instance
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create creates a new announcement
func (r *announcementRepository) Create(announcement *models.Announcement) error {
	return r.db.Create(announcement).Error
}

// Delete removes an announcement by ID
func (r *announcementRepository) Delete(id uint) error {
	return r.db.Delete(&models.Announcement{}, id).Error
}

// List returns announcements ordered by priority, newest first within equal priority
func (r *announcementRepository) List(limit int) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.Order("priority DESC, created_at DESC").Limit(limit).Find(&announcements).Error
	return announcements, err
}
