package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName       string    `gorm:"type:varchar(255);not null"`
	EmergencyEmail *string   `gorm:"type:varchar(255)"`
	Role           string    `gorm:"type:varchar(50);not null;default:'user'"`
	Status         string    `gorm:"type:varchar(50);not null;default:'active'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
