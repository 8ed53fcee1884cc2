package models

import "time"

// VoteWebhookLog records one row per inbound webhook delivery, independent of
// how many vote records the delivery carried. Purely forensic; the reward
// pipeline never reads it back.
type VoteWebhookLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DeliveryID   string    `gorm:"type:varchar(36);not null;index" json:"delivery_id"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	RequestType  string    `gorm:"type:varchar(10);not null" json:"request_type"`
	Username     string    `gorm:"type:varchar(13)" json:"username"`
	SuccessFlag  int       `gorm:"not null;default:1" json:"success_flag"`
	Reason       *string   `gorm:"type:varchar(255);default:null" json:"reason"`
	ErrorMessage *string   `gorm:"type:varchar(255);default:null" json:"error_message"`
	Processed    bool      `gorm:"not null;default:false" json:"processed"`
	ReceivedAt   time.Time `gorm:"autoCreateTime;index" json:"received_at"`
}

func (VoteWebhookLog) TableName() string {
	return "vote_webhook_logs"
}
