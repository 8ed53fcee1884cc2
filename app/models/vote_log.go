package models

import "time"

const (
	VoteStatusSuccess = "success"
	VoteStatusFailed  = "failed"
)

// VoteLog is the append-only audit trail for vote rewards. Rows are written
// once and never updated; the cooldown shown on the status endpoint is derived
// from the most recent success row per account.
type VoteLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"type:varchar(13);not null;index" json:"username"`
	Site          string    `gorm:"type:varchar(50);not null;index" json:"site"`
	VoteTime      time.Time `gorm:"type:timestamp;not null;index" json:"vote_time"`
	NXAwarded     int       `gorm:"not null;default:0" json:"nx_awarded"`
	IPAddress     string    `gorm:"type:varchar(45)" json:"ip_address"`
	Status        string    `gorm:"type:varchar(10);not null;index" json:"status"`
	FailureReason *string   `gorm:"type:varchar(255);default:null" json:"failure_reason"`
}

func (VoteLog) TableName() string {
	return "vote_logs"
}
