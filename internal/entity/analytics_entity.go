package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserAnalytics struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	SessionId       *uuid.UUID
	TherapyMode     string
	InteractionType string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
}
