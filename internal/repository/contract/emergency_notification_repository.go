package contract

import (
	"context"

	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"
)

// EmergencyNotificationRepository is append-only: escalation audit rows are
// created once and never mutated.
type EmergencyNotificationRepository interface {
	Create(ctx context.Context, notification *entity.EmergencyNotification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmergencyNotification, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
