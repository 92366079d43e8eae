package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/constant"
	"github.com/TheTechnextInc/mindful-chatbot/internal/dto"
	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/mailer"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/contract"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/unitofwork"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/crisis"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// --- Fakes ---

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []sentEmail
	result mailer.DeliveryResult
}

func (f *fakeMailer) Send(toEmail, subject, htmlBody string) mailer.DeliveryResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEmail{to: toEmail, subject: subject, body: htmlBody})
	return f.result
}

type fakeGuard struct {
	allow bool
	calls int
}

func (f *fakeGuard) TryAcquire(ctx context.Context, sessionId uuid.UUID, cooldown time.Duration) bool {
	f.calls++
	return f.allow
}

type emergencyStore struct {
	mu      sync.Mutex
	user    *entity.User
	records []*entity.EmergencyNotification
}

type emergencyUow struct{ store *emergencyStore }

func (u *emergencyUow) Begin(ctx context.Context) error { return nil }
func (u *emergencyUow) Commit() error                   { return nil }
func (u *emergencyUow) Rollback() error                 { return nil }
func (u *emergencyUow) UserRepository() contract.UserRepository {
	return &emergencyUserRepo{store: u.store}
}
func (u *emergencyUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *emergencyUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }
func (u *emergencyUow) AnalyticsRepository() contract.AnalyticsRepository     { return nil }
func (u *emergencyUow) EmergencyNotificationRepository() contract.EmergencyNotificationRepository {
	return &recordingEmergencyRepo{store: u.store}
}

type emergencyUowFactory struct{ store *emergencyStore }

func (f *emergencyUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &emergencyUow{store: f.store}
}

type emergencyUserRepo struct{ store *emergencyStore }

func (r *emergencyUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.store.user, nil
}
func (r *emergencyUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type recordingEmergencyRepo struct{ store *emergencyStore }

func (r *recordingEmergencyRepo) Create(ctx context.Context, n *entity.EmergencyNotification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.records = append(r.store.records, n)
	return nil
}
func (r *recordingEmergencyRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmergencyNotification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.records, nil
}
func (r *recordingEmergencyRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.records)), nil
}

// --- Helpers ---

type emergencyFixture struct {
	store   *emergencyStore
	mailer  *fakeMailer
	guard   *fakeGuard
	service IEmergencyService
	userId  uuid.UUID
}

func newEmergencyFixture(t *testing.T, emergencyEmail *string, delivery mailer.DeliveryResult) *emergencyFixture {
	t.Helper()

	userId := uuid.New()
	store := &emergencyStore{
		user: &entity.User{
			Id:             userId,
			Email:          "maya@example.com",
			FullName:       "Maya",
			EmergencyEmail: emergencyEmail,
		},
	}
	m := &fakeMailer{result: delivery}
	g := &fakeGuard{allow: true}

	svc := NewEmergencyService(
		&emergencyUowFactory{store: store},
		m,
		g,
		time.Hour,
		nil, // no ops bus in tests
		noopLogger{},
	)

	return &emergencyFixture{
		store:   store,
		mailer:  m,
		guard:   g,
		service: svc,
		userId:  userId,
	}
}

func strPtr(s string) *string { return &s }

func criticalDecision(count int) crisis.Decision {
	return crisis.Decision{Count: count, Level: crisis.LevelForCount(count)}
}

// --- Tests ---

func TestEscalateThresholdSendsAndAudits(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{
		Success:     true,
		ProviderRef: "smtp:mail.example.com",
	})
	sessionId := uuid.New()

	err := f.service.EscalateThreshold(context.Background(), f.userId, &sessionId,
		criticalDecision(3), []string{"want to die", "hopeless"})

	assert.NoError(t, err)
	if assert.Len(t, f.mailer.sent, 1) {
		assert.Equal(t, "contact@example.com", f.mailer.sent[0].to)
		assert.Contains(t, f.mailer.sent[0].subject, "Maya")
		assert.Contains(t, f.mailer.sent[0].body, "want to die")
		assert.Contains(t, f.mailer.sent[0].body, "988")
	}
	if assert.Len(t, f.store.records, 1) {
		rec := f.store.records[0]
		assert.Equal(t, constant.TriggerAutomaticThreshold, rec.TriggerType)
		assert.Equal(t, constant.NotificationTypeConcernAlert, rec.NotificationType)
		assert.Equal(t, 3, rec.KeywordCount)
		assert.True(t, rec.EmailSent)
		assert.Equal(t, "smtp:mail.example.com", rec.ProviderRef)
	}
}

func TestEscalateThresholdBelowThresholdIsNoop(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})
	sessionId := uuid.New()

	err := f.service.EscalateThreshold(context.Background(), f.userId, &sessionId,
		criticalDecision(2), []string{"hopeless"})

	assert.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.store.records)
	assert.Zero(t, f.guard.calls)
}

func TestEscalateThresholdNoContactDegradesSilently(t *testing.T) {
	f := newEmergencyFixture(t, nil, mailer.DeliveryResult{Success: true})
	sessionId := uuid.New()

	err := f.service.EscalateThreshold(context.Background(), f.userId, &sessionId,
		criticalDecision(4), []string{"want to die"})

	assert.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.store.records)
	// The cooldown slot stays free so an alert can still go out once the
	// user adds a contact.
	assert.Zero(t, f.guard.calls)
}

func TestEscalateThresholdDeliveryFailureStillAudited(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{
		Success: false,
		Error:   "smtp: connection refused",
	})
	sessionId := uuid.New()

	err := f.service.EscalateThreshold(context.Background(), f.userId, &sessionId,
		criticalDecision(3), []string{"want to die"})

	assert.NoError(t, err)
	if assert.Len(t, f.store.records, 1) {
		assert.False(t, f.store.records[0].EmailSent)
		assert.Equal(t, "smtp: connection refused", f.store.records[0].FailureReason)
	}
}

func TestEscalateThresholdCooldownSuppresses(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})
	f.guard.allow = false
	sessionId := uuid.New()

	err := f.service.EscalateThreshold(context.Background(), f.userId, &sessionId,
		criticalDecision(3), []string{"want to die"})

	assert.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.store.records)
	assert.Equal(t, 1, f.guard.calls)
}

func TestSendManualAlertNoContact(t *testing.T) {
	f := newEmergencyFixture(t, nil, mailer.DeliveryResult{Success: true})

	_, err := f.service.SendManualAlert(context.Background(), f.userId, &dto.ManualAlertRequest{})

	assert.ErrorIs(t, err, ErrNoEmergencyContact)
	assert.Empty(t, f.mailer.sent)
}

func TestSendManualAlertMasksContactEmail(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})

	res, err := f.service.SendManualAlert(context.Background(), f.userId, &dto.ManualAlertRequest{
		Message: "Please call me when you can",
	})

	assert.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.Equal(t, "c******@example.com", res.EmergencyEmail)
	if assert.Len(t, f.mailer.sent, 1) {
		assert.Contains(t, f.mailer.sent[0].body, "Please call me when you can")
	}
	if assert.Len(t, f.store.records, 1) {
		assert.Equal(t, constant.TriggerManual, f.store.records[0].TriggerType)
	}
}

func TestSendManualAlertEscapesMessageHTML(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})

	_, err := f.service.SendManualAlert(context.Background(), f.userId, &dto.ManualAlertRequest{
		Message: `<script>alert("hi")</script>`,
	})

	assert.NoError(t, err)
	if assert.Len(t, f.mailer.sent, 1) {
		assert.NotContains(t, f.mailer.sent[0].body, "<script>")
		assert.Contains(t, f.mailer.sent[0].body, "&lt;script&gt;")
	}
}

func TestSendProgressEmailEscapesProgressData(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})

	_, err := f.service.SendProgressEmail(context.Background(), f.userId, &dto.ProgressEmailRequest{
		Type: constant.NotificationTypeMilestone,
		ProgressData: map[string]interface{}{
			"<b>streak</b>": `<img src=x onerror=alert(1)>`,
		},
	})

	assert.NoError(t, err)
	if assert.Len(t, f.mailer.sent, 1) {
		assert.NotContains(t, f.mailer.sent[0].body, "<img")
		assert.Contains(t, f.mailer.sent[0].body, "&lt;b&gt;streak&lt;/b&gt;")
	}
}

func TestSendProgressEmailRecordsType(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})

	res, err := f.service.SendProgressEmail(context.Background(), f.userId, &dto.ProgressEmailRequest{
		Type: constant.NotificationTypeMilestone,
		ProgressData: map[string]interface{}{
			"sessions_completed": 10,
		},
	})

	assert.NoError(t, err)
	assert.True(t, res.EmailSent)
	if assert.Len(t, f.store.records, 1) {
		assert.Equal(t, constant.NotificationTypeMilestone, f.store.records[0].NotificationType)
		assert.EqualValues(t, 10, f.store.records[0].ProgressData["sessions_completed"])
	}
}

func TestGetNotificationHistory(t *testing.T) {
	f := newEmergencyFixture(t, strPtr("contact@example.com"), mailer.DeliveryResult{Success: true})
	f.store.records = append(f.store.records, &entity.EmergencyNotification{
		Id:               uuid.New(),
		UserId:           f.userId,
		NotificationType: constant.NotificationTypeConcernAlert,
		TriggerType:      constant.TriggerAutomaticThreshold,
		EmailSent:        true,
		CreatedAt:        time.Now(),
	})

	history, err := f.service.GetNotificationHistory(context.Background(), f.userId)

	assert.NoError(t, err)
	if assert.Len(t, history, 1) {
		assert.Equal(t, constant.NotificationTypeConcernAlert, history[0].NotificationType)
		assert.True(t, history[0].EmailSent)
	}
}
