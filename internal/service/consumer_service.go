package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/dto"
	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/logger"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the analytics topic and persists interaction events.
// Analytics writes stay off the chat request path; a failed insert costs a
// data point, never a reply.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AnalyticsEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal analytics message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	event := &entity.UserAnalytics{
		Id:              uuid.New(),
		UserId:          payload.UserId,
		SessionId:       payload.SessionId,
		TherapyMode:     payload.TherapyMode,
		InteractionType: payload.InteractionType,
		Metadata:        payload.Metadata,
		CreatedAt:       time.Now(),
	}

	if err := uow.AnalyticsRepository().Create(ctx, event); err != nil {
		cs.logger.Error("ConsumerService", "Failed to persist analytics event", map[string]interface{}{
			"user_id":          payload.UserId.String(),
			"interaction_type": payload.InteractionType,
			"error":            err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
