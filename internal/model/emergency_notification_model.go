package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EmergencyNotification is append-only. Rows are never updated or deleted;
// one row per dispatch attempt, including failed deliveries.
type EmergencyNotification struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index:idx_emergency_user_created,priority:1"`
	SessionId        *uuid.UUID     `gorm:"type:uuid;index"`
	EmergencyEmail   string         `gorm:"type:varchar(255);not null"`
	NotificationType string         `gorm:"type:varchar(50);not null;index"`
	TriggerType      string         `gorm:"type:varchar(50);not null"`
	KeywordCount     int            `gorm:"not null;default:0"`
	MatchedKeywords  datatypes.JSON `gorm:"type:jsonb"`
	EmailSent        bool           `gorm:"not null;default:false"`
	ProviderRef      string         `gorm:"type:varchar(255)"`
	FailureReason    string         `gorm:"type:text"`
	ProgressData     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index:idx_emergency_user_created,priority:2"`
}

func (EmergencyNotification) TableName() string {
	return "emergency_notifications"
}
