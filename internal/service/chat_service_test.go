package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/TheTechnextInc/mindful-chatbot/internal/constant"
	"github.com/TheTechnextInc/mindful-chatbot/internal/dto"
	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/contract"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/unitofwork"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/crisis"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- Fakes ---

type fakeStore struct {
	mu        sync.Mutex
	session   *entity.ChatSession
	user      *entity.User
	messages  []*entity.ChatMessage
	createErr error
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}
func (u *fakeUow) AnalyticsRepository() contract.AnalyticsRepository {
	return &fakeAnalyticsRepo{}
}
func (u *fakeUow) EmergencyNotificationRepository() contract.EmergencyNotificationRepository {
	return &fakeEmergencyRepo{}
}

type fakeUowFactory struct {
	store *fakeStore
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.store.user, nil
}
func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.session = s
	return nil
}
func (r *fakeSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error { return nil }
func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.session = nil
	return nil
}
func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return r.store.session, nil
}
func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	if r.store.session == nil {
		return nil, nil
	}
	return []*entity.ChatSession{r.store.session}, nil
}
func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.createErr != nil {
		return r.store.createErr
	}
	r.store.messages = append(r.store.messages, m)
	return nil
}
func (r *fakeMessageRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.messages = nil
	return nil
}
func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	return nil, nil
}
func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	// The production path filters to user-authored rows; mirror that so
	// history counts match what the real query would return.
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if m.Role == constant.ChatMessageRoleUser {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.messages)), nil
}

type fakeAnalyticsRepo struct{}

func (r *fakeAnalyticsRepo) Create(ctx context.Context, e *entity.UserAnalytics) error { return nil }
func (r *fakeAnalyticsRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserAnalytics, error) {
	return nil, nil
}
func (r *fakeAnalyticsRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeEmergencyRepo struct{}

func (r *fakeEmergencyRepo) Create(ctx context.Context, n *entity.EmergencyNotification) error {
	return nil
}
func (r *fakeEmergencyRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmergencyNotification, error) {
	return nil, nil
}
func (r *fakeEmergencyRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeLLM struct {
	reply    string
	err      error
	calls    int
	lastOpts llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	for _, opt := range options {
		opt(&f.lastOpts)
	}
	return f.reply, f.err
}
func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

type escalationCall struct {
	userId   uuid.UUID
	decision crisis.Decision
	matched  []string
}

type fakeEmergencyService struct {
	mu    sync.Mutex
	calls []escalationCall
	err   error
}

func (f *fakeEmergencyService) EscalateThreshold(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, decision crisis.Decision, matched []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, escalationCall{userId: userId, decision: decision, matched: matched})
	return f.err
}
func (f *fakeEmergencyService) SendManualAlert(ctx context.Context, userId uuid.UUID, req *dto.ManualAlertRequest) (*dto.ManualAlertResponse, error) {
	return nil, nil
}
func (f *fakeEmergencyService) SendProgressEmail(ctx context.Context, userId uuid.UUID, req *dto.ProgressEmailRequest) (*dto.ProgressEmailResponse, error) {
	return nil, nil
}
func (f *fakeEmergencyService) GetNotificationHistory(ctx context.Context, userId uuid.UUID) ([]dto.NotificationHistoryResponse, error) {
	return nil, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// --- Helpers ---

type chatFixture struct {
	store     *fakeStore
	llm       *fakeLLM
	emergency *fakeEmergencyService
	publisher *fakePublisher
	service   IChatService
	userId    uuid.UUID
	sessionId uuid.UUID
}

func newChatFixture(t *testing.T, reply string, llmErr error) *chatFixture {
	t.Helper()

	userId := uuid.New()
	sessionId := uuid.New()
	store := &fakeStore{
		user: &entity.User{Id: userId, Email: "maya@example.com", FullName: "Maya"},
		session: &entity.ChatSession{
			Id:          sessionId,
			UserId:      userId,
			TherapyMode: "general",
			Title:       "Test session",
		},
	}

	llmFake := &fakeLLM{reply: reply, err: llmErr}
	emergency := &fakeEmergencyService{}
	publisher := &fakePublisher{}
	tracker := crisis.NewTracker(crisis.NewDefaultDetector(), crisis.DefaultWindow)

	svc := NewChatService(
		&fakeUowFactory{store: store},
		llmFake,
		tracker,
		emergency,
		publisher,
		noopLogger{},
	)

	return &chatFixture{
		store:     store,
		llm:       llmFake,
		emergency: emergency,
		publisher: publisher,
		service:   svc,
		userId:    userId,
		sessionId: sessionId,
	}
}

func (f *chatFixture) seedUserMessage(text string) {
	f.store.messages = append(f.store.messages, &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          text,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: f.sessionId,
		UserId:        f.userId,
	})
}

func (f *chatFixture) send(t *testing.T, message string) *dto.SendChatResponse {
	t.Helper()
	res, err := f.service.SendChat(context.Background(), &f.userId, &dto.SendChatRequest{
		ChatSessionId: &f.sessionId,
		Message:       message,
	})
	assert.NoError(t, err)
	return res
}

// --- Tests ---

func TestSendChatEscalatesAtThreshold(t *testing.T) {
	f := newChatFixture(t, "That sounds really hard. I'm here with you.", nil)
	f.seedUserMessage("I feel hopeless about all of this")
	f.seedUserMessage("some days I just want to give up")

	res := f.send(t, "honestly I want to die")

	assert.Equal(t, "That sounds really hard. I'm here with you.", res.Reply)
	if assert.Len(t, f.emergency.calls, 1) {
		call := f.emergency.calls[0]
		assert.Equal(t, f.userId, call.userId)
		assert.Equal(t, 3, call.decision.Count)
		assert.Equal(t, crisis.LevelCritical, call.decision.Level)
		assert.Contains(t, call.matched, "want to die")
	}
}

func TestSendChatBelowThresholdNoEscalation(t *testing.T) {
	f := newChatFixture(t, "Thank you for sharing that.", nil)
	f.seedUserMessage("I feel hopeless sometimes")

	f.send(t, "today was a bit better")

	assert.Empty(t, f.emergency.calls)
}

func TestSendChatUpstreamFailureReturnsFallback(t *testing.T) {
	f := newChatFixture(t, "", errors.New("connection refused"))

	res := f.send(t, "hello")

	assert.Equal(t, constant.FallbackUpstreamUnavailable, res.Reply)
}

func TestSendChatEmptyCompletionReturnsFallback(t *testing.T) {
	f := newChatFixture(t, "   ", nil)

	res := f.send(t, "hello")

	assert.Equal(t, constant.FallbackEmptyCompletion, res.Reply)
}

func TestSendChatCapsCompletionTokens(t *testing.T) {
	f := newChatFixture(t, "I'm here with you.", nil)

	f.send(t, "hello")

	assert.Equal(t, constant.CompletionMaxTokens, f.llm.lastOpts.MaxTokens)
}

func TestSendChatEscalationFailureStillReturnsReply(t *testing.T) {
	f := newChatFixture(t, "I'm here with you.", nil)
	f.emergency.err = errors.New("smtp down")
	f.seedUserMessage("I want to die")
	f.seedUserMessage("I want to die")

	res := f.send(t, "I want to die")

	assert.Equal(t, "I'm here with you.", res.Reply)
	assert.Len(t, f.emergency.calls, 1)
}

func TestSendChatPersistsBothMessages(t *testing.T) {
	f := newChatFixture(t, "Tell me more about that.", nil)

	f.send(t, "work has been stressful")

	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	assert.Len(t, f.store.messages, 2)

	var userMsg, assistantMsg *entity.ChatMessage
	for _, m := range f.store.messages {
		switch m.Role {
		case constant.ChatMessageRoleUser:
			userMsg = m
		case constant.ChatMessageRoleAssistant:
			assistantMsg = m
		}
	}
	if assert.NotNil(t, userMsg) && assert.NotNil(t, assistantMsg) {
		assert.Equal(t, "work has been stressful", userMsg.Chat)
		assert.Equal(t, "Tell me more about that.", assistantMsg.Chat)
		assert.True(t, assistantMsg.CreatedAt.After(userMsg.CreatedAt))
	}
}

func TestSendChatStoreFailureStillReturnsReply(t *testing.T) {
	f := newChatFixture(t, "Tell me more about that.", nil)
	f.store.createErr = errors.New("connection reset by peer")

	res := f.send(t, "work has been stressful")

	assert.Equal(t, "Tell me more about that.", res.Reply)
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	assert.Empty(t, f.store.messages)
}

func TestSendChatPublishesAnalytics(t *testing.T) {
	f := newChatFixture(t, "I hear you.", nil)

	f.send(t, "I feel hopeless today")

	f.publisher.mu.Lock()
	defer f.publisher.mu.Unlock()
	if assert.Len(t, f.publisher.payloads, 1) {
		var event dto.AnalyticsEventMessage
		assert.NoError(t, json.Unmarshal(f.publisher.payloads[0], &event))
		assert.Equal(t, constant.InteractionMessageSent, event.InteractionType)
		assert.Equal(t, f.userId, event.UserId)
		assert.EqualValues(t, 1, event.Metadata["crisis_count"])
	}
}

func TestSendChatAnonymousSkipsTracking(t *testing.T) {
	f := newChatFixture(t, "It sounds like a lot is going on.", nil)

	res, err := f.service.SendChat(context.Background(), nil, &dto.SendChatRequest{
		Message: "I want to die",
	})

	assert.NoError(t, err)
	assert.Equal(t, "It sounds like a lot is going on.", res.Reply)
	assert.Empty(t, f.emergency.calls)
	assert.Empty(t, f.store.messages)
}

func TestSendChatUnknownSessionReturnsError(t *testing.T) {
	f := newChatFixture(t, "hi", nil)
	f.store.session = nil

	_, err := f.service.SendChat(context.Background(), &f.userId, &dto.SendChatRequest{
		ChatSessionId: &f.sessionId,
		Message:       "hello",
	})

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreateSessionSeedsWelcomeMessage(t *testing.T) {
	f := newChatFixture(t, "unused", nil)
	f.store.session = nil
	f.store.messages = nil

	res, err := f.service.CreateSession(context.Background(), f.userId, &dto.CreateSessionRequest{Mode: "cbt"})

	assert.NoError(t, err)
	assert.Equal(t, "cbt", res.Mode)
	assert.NotEmpty(t, res.WelcomeMessage)

	if assert.Len(t, f.store.messages, 1) {
		assert.Equal(t, constant.ChatMessageRoleAssistant, f.store.messages[0].Role)
		assert.Equal(t, res.WelcomeMessage, f.store.messages[0].Chat)
	}
}

func TestCreateSessionUnknownModeFallsBack(t *testing.T) {
	f := newChatFixture(t, "unused", nil)
	f.store.session = nil

	res, err := f.service.CreateSession(context.Background(), f.userId, &dto.CreateSessionRequest{Mode: "hypnotherapy"})

	assert.NoError(t, err)
	assert.Equal(t, constant.DefaultTherapyModeID, res.Mode)
}
