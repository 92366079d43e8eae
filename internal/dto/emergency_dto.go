package dto

import (
	"time"

	"github.com/google/uuid"
)

type ManualAlertRequest struct {
	Message string `json:"message,omitempty"`
}

type ManualAlertResponse struct {
	EmailSent      bool   `json:"email_sent"`
	EmergencyEmail string `json:"emergency_email,omitempty"`
}

type ProgressEmailRequest struct {
	Type         string                 `json:"type" validate:"required,oneof=milestone weekly_progress concern_alert"`
	ProgressData map[string]interface{} `json:"progress_data,omitempty"`
}

type ProgressEmailResponse struct {
	EmailSent bool `json:"email_sent"`
}

type NotificationHistoryResponse struct {
	Id               uuid.UUID `json:"id"`
	NotificationType string    `json:"notification_type"`
	TriggerType      string    `json:"trigger_type"`
	EmailSent        bool      `json:"email_sent"`
	CreatedAt        time.Time `json:"created_at"`
}
