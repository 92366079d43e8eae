package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserAnalytics struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index:idx_analytics_user_created,priority:1"`
	SessionId       *uuid.UUID     `gorm:"type:uuid;index"`
	TherapyMode     string         `gorm:"type:varchar(50)"`
	InteractionType string         `gorm:"type:varchar(50);not null;index"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index:idx_analytics_user_created,priority:2"`
}

func (UserAnalytics) TableName() string {
	return "user_analytics"
}
