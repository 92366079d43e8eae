package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmergencyNotification is the audit record for one escalation attempt. A row
// exists for every attempt, whether or not the email provider accepted it.
type EmergencyNotification struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	SessionId        *uuid.UUID
	EmergencyEmail   string
	NotificationType string
	TriggerType      string
	KeywordCount     int
	MatchedKeywords  []string
	EmailSent        bool
	ProviderRef      string
	FailureReason    string
	ProgressData     map[string]interface{}
	CreatedAt        time.Time
}
