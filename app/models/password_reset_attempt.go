package models

import "time"

// PasswordResetAttempt records every secret-answer verification, successful or
// not. The forgot-password flow throttles on recent failed rows per account.
type PasswordResetAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AccountID   uint      `gorm:"not null;index" json:"account_id"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	Success     bool      `gorm:"not null;default:false" json:"success"`
	AttemptedAt time.Time `gorm:"autoCreateTime;index" json:"attempted_at"`
}

func (PasswordResetAttempt) TableName() string {
	return "password_reset_attempts"
}
