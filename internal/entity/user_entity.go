package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id             uuid.UUID
	Email          string
	FullName       string
	EmergencyEmail *string
	Role           string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// DisplayName is what escalation emails address the user by. Falls back to
// the email local part when the profile has no full name.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
