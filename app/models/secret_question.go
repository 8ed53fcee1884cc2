package models

import "time"

// SecretQuestion is a companion table holding the selectable security
// questions used by registration and the password reset flow.
type SecretQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuestionText string    `gorm:"type:varchar(255);not null" json:"question_text"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SecretQuestion) TableName() string {
	return "secret_questions"
}
