package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Mode  string `json:"mode,omitempty"`
	Title string `json:"title,omitempty"`
}

type CreateSessionResponse struct {
	Id             uuid.UUID `json:"id"`
	Mode           string    `json:"mode"`
	Title          string    `json:"title"`
	WelcomeMessage string    `json:"welcome_message"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Mode      string     `json:"mode"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId *uuid.UUID `json:"chat_session_id,omitempty"`
	Message       string     `json:"message" validate:"required"`
	Mode          string     `json:"mode,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId *uuid.UUID `json:"chat_session_id,omitempty"`
	Reply         string     `json:"reply"`
	Mode          string     `json:"mode"`
}

type TherapyModeResponse struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	WelcomeMessage string `json:"welcome_message"`
}
