package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/constant"
	"github.com/TheTechnextInc/mindful-chatbot/internal/dto"
	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/logger"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/memory"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/unitofwork"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/crisis"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/response"

	"github.com/google/uuid"
)

type IChatService interface {
	SendChat(ctx context.Context, userId *uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
}

var ErrSessionNotFound = errors.New("chat session not found")

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	llmProvider      llm.LLMProvider
	tracker          *crisis.Tracker
	emergencyService IEmergencyService
	publisherService IPublisherService
	sessionLocks     *memory.SessionLocks
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	tracker *crisis.Tracker,
	emergencyService IEmergencyService,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		llmProvider:      llmProvider,
		tracker:          tracker,
		emergencyService: emergencyService,
		publisherService: publisherService,
		sessionLocks:     memory.NewSessionLocks(),
		logger:           log,
	}
}

// SendChat runs one conversation turn: assess session risk, escalate when the
// threshold is crossed, call the model, normalize the reply and record the
// exchange. Only a failed completion surfaces to the user, and even that as a
// canned supportive fallback rather than an error.
func (cs *chatService) SendChat(ctx context.Context, userId *uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	mode := constant.TherapyModeByID(req.Mode)

	tracked := userId != nil && req.ChatSessionId != nil
	var decision crisis.Decision
	var matched []string

	if tracked {
		// Serialize turns per session: risk counts derive from stored
		// history, so concurrent read-assess-write cycles must not interleave.
		unlock := cs.sessionLocks.Lock(*req.ChatSessionId)
		defer unlock()

		session, err := cs.loadOwnedSession(ctx, *userId, *req.ChatSessionId)
		if err != nil {
			return nil, err
		}
		if session.TherapyMode != "" && req.Mode == "" {
			mode = constant.TherapyModeByID(session.TherapyMode)
		}

		history, err := cs.recentUserMessages(ctx, *req.ChatSessionId)
		if err != nil {
			// Risk tracking degrades to current-message-only; the turn
			// proceeds.
			cs.logger.Warn("ChatService", "Failed to load session history for risk assessment", map[string]interface{}{
				"session_id": req.ChatSessionId.String(),
				"error":      err.Error(),
			})
			history = nil
		}

		decision = cs.tracker.Assess(history, req.Message)
		match := crisis.Match{}
		if decision.Count > 0 {
			match = cs.detectAcross(history, req.Message)
			matched = match.Phrases
		}

		if decision.ShouldEscalate() {
			if err := cs.emergencyService.EscalateThreshold(ctx, *userId, req.ChatSessionId, decision, matched); err != nil {
				cs.logger.Error("ChatService", "Escalation failed", map[string]interface{}{
					"session_id": req.ChatSessionId.String(),
					"error":      err.Error(),
				})
			}
		}
	}

	reply, completionFailed := cs.complete(ctx, mode, req.Message)

	if tracked {
		cs.recordTurn(ctx, *userId, *req.ChatSessionId, mode.ID, req.Message, reply, decision, matched, completionFailed)
	}

	return &dto.SendChatResponse{
		ChatSessionId: req.ChatSessionId,
		Reply:         reply,
		Mode:          mode.ID,
	}, nil
}

func (cs *chatService) loadOwnedSession(ctx context.Context, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.SessionOwnedByUser{UserID: userId},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (cs *chatService) recentUserMessages(ctx context.Context, sessionId uuid.UUID) ([]string, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ByRole{Role: constant.ChatMessageRoleUser},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: cs.tracker.Window()},
	)
	if err != nil {
		return nil, err
	}

	history := make([]string, len(messages))
	for i, m := range messages {
		history[i] = m.Chat
	}
	return history, nil
}

// detectAcross collects the distinct matched phrases over the window plus the
// current message, preserving phrase-list order within each message.
func (cs *chatService) detectAcross(history []string, current string) crisis.Match {
	seen := make(map[string]bool)
	out := crisis.Match{}
	texts := append(append([]string{}, history...), current)
	for _, text := range texts {
		m := cs.tracker.Detector().Detect(text)
		for _, p := range m.Phrases {
			if !seen[p] {
				seen[p] = true
				out.Phrases = append(out.Phrases, p)
			}
		}
	}
	out.Found = len(out.Phrases) > 0
	return out
}

func (cs *chatService) complete(ctx context.Context, mode constant.TherapyMode, userMessage string) (string, bool) {
	messages := []llm.Message{
		{Role: "system", Content: mode.SystemPrompt + constant.ResponseGuidelines},
		{Role: "user", Content: userMessage},
	}

	raw, err := cs.llmProvider.Chat(ctx, messages, llm.WithMaxTokens(constant.CompletionMaxTokens))
	if err != nil {
		cs.logger.Error("ChatService", "Completion call failed", map[string]interface{}{
			"mode":  mode.ID,
			"error": err.Error(),
		})
		return constant.FallbackUpstreamUnavailable, true
	}

	normalized := response.Normalize(raw)
	if normalized == "" {
		return constant.FallbackEmptyCompletion, false
	}
	return normalized, false
}

// recordTurn fires the three post-reply writes concurrently. Each is best
// effort: a lost row or analytics event never costs the user their reply.
func (cs *chatService) recordTurn(
	ctx context.Context,
	userId, sessionId uuid.UUID,
	modeId, userMessage, reply string,
	decision crisis.Decision,
	matched []string,
	completionFailed bool,
) {
	now := time.Now()
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		msg := &entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          userMessage,
			Role:          constant.ChatMessageRoleUser,
			ChatSessionId: sessionId,
			UserId:        userId,
			TherapyMode:   modeId,
			CreatedAt:     now,
		}
		if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
			cs.logger.Error("ChatService", "Failed to persist user message", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}()

	go func() {
		defer wg.Done()
		msg := &entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          reply,
			Role:          constant.ChatMessageRoleAssistant,
			ChatSessionId: sessionId,
			UserId:        userId,
			TherapyMode:   modeId,
			// Offset keeps history ordering stable when both rows land in
			// the same timestamp tick.
			CreatedAt: now.Add(1 * time.Second),
		}
		if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
			cs.logger.Error("ChatService", "Failed to persist assistant message", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}()

	go func() {
		defer wg.Done()
		event := dto.AnalyticsEventMessage{
			UserId:          userId,
			SessionId:       &sessionId,
			TherapyMode:     modeId,
			InteractionType: constant.InteractionMessageSent,
			Metadata: map[string]interface{}{
				"crisis_count":      decision.Count,
				"crisis_level":      string(decision.Level),
				"matched_keywords":  matched,
				"completion_failed": completionFailed,
			},
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		if err := cs.publisherService.Publish(ctx, payload); err != nil {
			cs.logger.Warn("ChatService", "Failed to publish analytics event", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}()

	wg.Wait()
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	mode := constant.TherapyModeByID(req.Mode)

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s session - %s", mode.Name, time.Now().Format("Jan 2, 2006"))
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session := &entity.ChatSession{
		Id:          uuid.New(),
		UserId:      userId,
		TherapyMode: mode.ID,
		Title:       title,
		CreatedAt:   time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	welcome := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          mode.WelcomeMessage,
		Role:          constant.ChatMessageRoleAssistant,
		ChatSessionId: session.Id,
		UserId:        userId,
		TherapyMode:   mode.ID,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, welcome); err != nil {
		cs.logger.Warn("ChatService", "Failed to seed welcome message", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}

	if payload, err := json.Marshal(dto.AnalyticsEventMessage{
		UserId:          userId,
		SessionId:       &session.Id,
		TherapyMode:     mode.ID,
		InteractionType: constant.InteractionSessionStarted,
	}); err == nil {
		if err := cs.publisherService.Publish(ctx, payload); err != nil {
			cs.logger.Warn("ChatService", "Failed to publish session analytics", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	return &dto.CreateSessionResponse{
		Id:             session.Id,
		Mode:           mode.ID,
		Title:          session.Title,
		WelcomeMessage: mode.WelcomeMessage,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.SessionOwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GetAllSessionsResponse, len(sessions))
	for i, s := range sessions {
		out[i] = dto.GetAllSessionsResponse{
			Id:        s.Id,
			Mode:      s.TherapyMode,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return out, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId, sessionId uuid.UUID) ([]dto.GetChatHistoryResponse, error) {
	if _, err := cs.loadOwnedSession(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.GetChatHistoryResponse, len(messages))
	for i, m := range messages {
		out[i] = dto.GetChatHistoryResponse{
			Id:        m.Id,
			Role:      m.Role,
			Chat:      m.Chat,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	if _, err := cs.loadOwnedSession(ctx, userId, sessionId); err != nil {
		return err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	return uow.Commit()
}
