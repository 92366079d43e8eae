package unitofwork

import (
	"context"

	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	AnalyticsRepository() contract.AnalyticsRepository
	EmergencyNotificationRepository() contract.EmergencyNotificationRepository
}
