package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/ellinia-dev/ellinia/app/models"
)

// secretQuestionRepository implements the SecretQuestionRepository interface
type secretQuestionRepository struct {
	db *gorm.DB
}

// NewSecretQuestionRepository creates a new secret question repository instance
func NewSecretQuestionRepository(db *gorm.DB) SecretQuestionRepository {
	return &secretQuestionRepository{db: db}
}

// GetActive returns all currently selectable security questions
func (r *secretQuestionRepository) GetActive() ([]models.SecretQuestion, error) {
	var questions []models.SecretQuestion
	err := r.db.Where("is_active = ?", true).Order("id").Find(&questions).Error
	return questions, err
}

// GetByID retrieves a security question by its ID
func (r *secretQuestionRepository) GetByID(id uint) (*models.SecretQuestion, error) {
	var question models.SecretQuestion
	err := r.db.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// GetQuestionText returns just the question text, never the stored answer
func (r *secretQuestionRepository) GetQuestionText(id uint) (string, error) {
	var question models.SecretQuestion
	err := r.db.Select("question_text").First(&question, id).Error
	if err != nil {
		return "", err
	}
	return question.QuestionText, nil
}

// resetAttemptRepository implements the ResetAttemptRepository interface
type resetAttemptRepository struct {
	db *gorm.DB
}

// NewResetAttemptRepository creates a new reset attempt repository instance
func NewResetAttemptRepository(db *gorm.DB) ResetAttemptRepository {
	return &resetAttemptRepository{db: db}
}

// Log records a password reset attempt
func (r *resetAttemptRepository) Log(accountID uint, ipAddress string, success bool) error {
	return r.db.Create(&models.PasswordResetAttempt{
		AccountID: accountID,
		IPAddress: ipAddress,
		Success:   success,
	}).Error
}

// CountRecentFailed counts failed attempts for an account since the given time
func (r *resetAttemptRepository) CountRecentFailed(accountID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.PasswordResetAttempt{}).
		Where("account_id = ? AND success = ? AND attempted_at >= ?", accountID, false, since).
		Count(&count).Error
	return count, err
}
