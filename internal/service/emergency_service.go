package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/TheTechnextInc/mindful-chatbot/internal/constant"
	"github.com/TheTechnextInc/mindful-chatbot/internal/dto"
	"github.com/TheTechnextInc/mindful-chatbot/internal/entity"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/logger"
	"github.com/TheTechnextInc/mindful-chatbot/internal/pkg/mailer"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/guard"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/specification"
	"github.com/TheTechnextInc/mindful-chatbot/internal/repository/unitofwork"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/crisis"
	"github.com/TheTechnextInc/mindful-chatbot/pkg/events"
	pkgnats "github.com/TheTechnextInc/mindful-chatbot/pkg/nats"

	"github.com/google/uuid"
)

type IEmergencyService interface {
	// EscalateThreshold dispatches a crisis alert to the user's emergency
	// contact. Callers invoke it only when the session risk assessment
	// crossed the escalation threshold.
	EscalateThreshold(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, decision crisis.Decision, matched []string) error

	SendManualAlert(ctx context.Context, userId uuid.UUID, req *dto.ManualAlertRequest) (*dto.ManualAlertResponse, error)
	SendProgressEmail(ctx context.Context, userId uuid.UUID, req *dto.ProgressEmailRequest) (*dto.ProgressEmailResponse, error)
	GetNotificationHistory(ctx context.Context, userId uuid.UUID) ([]dto.NotificationHistoryResponse, error)
}

var ErrNoEmergencyContact = fmt.Errorf("no emergency contact configured")

type emergencyService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	guard        guard.EscalationGuard
	cooldown     time.Duration
	opsPublisher *pkgnats.Publisher
	logger       logger.ILogger
}

func NewEmergencyService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	escalationGuard guard.EscalationGuard,
	cooldown time.Duration,
	opsPublisher *pkgnats.Publisher,
	log logger.ILogger,
) IEmergencyService {
	return &emergencyService{
		uowFactory:   uowFactory,
		emailService: emailService,
		guard:        escalationGuard,
		cooldown:     cooldown,
		opsPublisher: opsPublisher,
		logger:       log,
	}
}

func (es *emergencyService) EscalateThreshold(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, decision crisis.Decision, matched []string) error {
	if !decision.ShouldEscalate() {
		return nil
	}

	uow := es.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return fmt.Errorf("failed to load user profile: %w", err)
	}
	if user == nil {
		es.logger.Warn("EmergencyService", "Escalation requested for unknown user", map[string]interface{}{
			"user_id": userId.String(),
		})
		return nil
	}

	// No contact on file means nothing to dispatch and nothing to audit.
	// The conversation continues; the gap is only visible in logs.
	if user.EmergencyEmail == nil || *user.EmergencyEmail == "" {
		es.logger.Warn("EmergencyService", "Crisis threshold crossed but user has no emergency contact", map[string]interface{}{
			"user_id":       userId.String(),
			"keyword_count": decision.Count,
		})
		return nil
	}

	// Claim the cooldown slot only once a dispatch is actually possible, so
	// a missing contact does not burn the session's window.
	if es.cooldown > 0 && sessionId != nil && !es.guard.TryAcquire(ctx, *sessionId, es.cooldown) {
		es.logger.Info("EmergencyService", "Escalation suppressed by cooldown", map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
		})
		return nil
	}

	subject := fmt.Sprintf("Urgent: %s may need your support", user.DisplayName())
	body := composeAlertHTML(user.DisplayName(), decision.Count, matched)
	result := es.emailService.Send(*user.EmergencyEmail, subject, body)

	if !result.Success {
		es.logger.Error("EmergencyService", "Crisis alert email delivery failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   result.Error,
		})
	}

	record := &entity.EmergencyNotification{
		Id:               uuid.New(),
		UserId:           userId,
		SessionId:        sessionId,
		EmergencyEmail:   *user.EmergencyEmail,
		NotificationType: constant.NotificationTypeConcernAlert,
		TriggerType:      constant.TriggerAutomaticThreshold,
		KeywordCount:     decision.Count,
		MatchedKeywords:  matched,
		EmailSent:        result.Success,
		ProviderRef:      result.ProviderRef,
		FailureReason:    result.Error,
		CreatedAt:        time.Now(),
	}
	if err := uow.EmergencyNotificationRepository().Create(ctx, record); err != nil {
		es.logger.Error("EmergencyService", "Failed to persist escalation audit record", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return err
	}

	sessionRef := ""
	if sessionId != nil {
		sessionRef = sessionId.String()
	}
	if err := es.opsPublisher.Publish(ctx, events.NewCrisisEscalated(userId.String(), sessionRef, decision.Count, result.Success)); err != nil {
		es.logger.Warn("EmergencyService", "Failed to publish escalation event", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}

	es.logger.Info("EmergencyService", "Crisis escalation dispatched", map[string]interface{}{
		"user_id":       userId.String(),
		"keyword_count": decision.Count,
		"email_sent":    result.Success,
	})
	return nil
}

func (es *emergencyService) SendManualAlert(ctx context.Context, userId uuid.UUID, req *dto.ManualAlertRequest) (*dto.ManualAlertResponse, error) {
	uow := es.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	if user.EmergencyEmail == nil || *user.EmergencyEmail == "" {
		return nil, ErrNoEmergencyContact
	}

	subject := fmt.Sprintf("%s has asked to reach you", user.DisplayName())
	body := composeManualAlertHTML(user.DisplayName(), req.Message)
	result := es.emailService.Send(*user.EmergencyEmail, subject, body)

	record := &entity.EmergencyNotification{
		Id:               uuid.New(),
		UserId:           userId,
		EmergencyEmail:   *user.EmergencyEmail,
		NotificationType: constant.NotificationTypeConcernAlert,
		TriggerType:      constant.TriggerManual,
		EmailSent:        result.Success,
		ProviderRef:      result.ProviderRef,
		FailureReason:    result.Error,
		CreatedAt:        time.Now(),
	}
	if err := uow.EmergencyNotificationRepository().Create(ctx, record); err != nil {
		es.logger.Error("EmergencyService", "Failed to persist manual alert record", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}

	return &dto.ManualAlertResponse{
		EmailSent:      result.Success,
		EmergencyEmail: maskEmail(*user.EmergencyEmail),
	}, nil
}

func (es *emergencyService) SendProgressEmail(ctx context.Context, userId uuid.UUID, req *dto.ProgressEmailRequest) (*dto.ProgressEmailResponse, error) {
	uow := es.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	if user.EmergencyEmail == nil || *user.EmergencyEmail == "" {
		return nil, ErrNoEmergencyContact
	}

	subject, body := composeProgressHTML(user.DisplayName(), req.Type, req.ProgressData)
	result := es.emailService.Send(*user.EmergencyEmail, subject, body)

	record := &entity.EmergencyNotification{
		Id:               uuid.New(),
		UserId:           userId,
		EmergencyEmail:   *user.EmergencyEmail,
		NotificationType: req.Type,
		TriggerType:      constant.TriggerManual,
		EmailSent:        result.Success,
		ProviderRef:      result.ProviderRef,
		FailureReason:    result.Error,
		ProgressData:     req.ProgressData,
		CreatedAt:        time.Now(),
	}
	if err := uow.EmergencyNotificationRepository().Create(ctx, record); err != nil {
		es.logger.Error("EmergencyService", "Failed to persist progress email record", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}

	return &dto.ProgressEmailResponse{EmailSent: result.Success}, nil
}

func (es *emergencyService) GetNotificationHistory(ctx context.Context, userId uuid.UUID) ([]dto.NotificationHistoryResponse, error) {
	uow := es.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.EmergencyNotificationRepository().FindAll(ctx,
		specification.Filter("user_id", userId),
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationHistoryResponse, len(records))
	for i, r := range records {
		out[i] = dto.NotificationHistoryResponse{
			Id:               r.Id,
			NotificationType: r.NotificationType,
			TriggerType:      r.TriggerType,
			EmailSent:        r.EmailSent,
			CreatedAt:        r.CreatedAt,
		}
	}
	return out, nil
}

// --- Email composition ---

// All user-supplied values are escaped before landing in markup. Display
// names and messages come straight from profile and request fields.
func composeAlertHTML(displayName string, count int, matched []string) string {
	displayName = html.EscapeString(displayName)
	examples := matched
	if len(examples) > 3 {
		examples = examples[:3]
	}

	var phraseBlock string
	if len(examples) > 0 {
		items := make([]string, len(examples))
		for i, p := range examples {
			items[i] = "<li>" + html.EscapeString(p) + "</li>"
		}
		phraseBlock = fmt.Sprintf(`<p>Language of concern detected (%d indicator(s)):</p><ul>%s</ul>`, count, strings.Join(items, ""))
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #fef2f2; padding: 20px; border-radius: 8px; border-left: 4px solid #dc2626; margin-bottom: 20px;">
    <h2 style="color: #dc2626; margin-top: 0;">Someone you care about may need support</h2>
    <p>You are receiving this because <strong>%s</strong> listed you as their emergency contact.</p>
    <p>During a recent conversation in their mental wellness app, they used language that suggests they may be going through a difficult time.</p>
    %s
    <p><strong>Please consider reaching out to them soon.</strong> A simple check-in call or message can make a real difference.</p>
  </div>
  %s
  <p style="color: #6b7280; font-size: 12px;">Sent %s. This is an automated safety notification; it is not a diagnosis.</p>
</div>`, displayName, phraseBlock, constant.CrisisResourcesHTML, time.Now().Format(time.RFC1123))
}

func composeManualAlertHTML(displayName, message string) string {
	displayName = html.EscapeString(displayName)
	personalNote := ""
	if message != "" {
		personalNote = fmt.Sprintf(`<p style="font-style: italic;">"%s"</p>`, html.EscapeString(message))
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #eff6ff; padding: 20px; border-radius: 8px; border-left: 4px solid #2563eb; margin-bottom: 20px;">
    <h2 style="color: #2563eb; margin-top: 0;">%s would like you to reach out</h2>
    <p><strong>%s</strong> used their mental wellness app to ask for your support.</p>
    %s
    <p>Please consider contacting them when you can.</p>
  </div>
  %s
  <p style="color: #6b7280; font-size: 12px;">Sent %s.</p>
</div>`, displayName, displayName, personalNote, constant.CrisisResourcesHTML, time.Now().Format(time.RFC1123))
}

func composeProgressHTML(displayName, notificationType string, progressData map[string]interface{}) (string, string) {
	escapedName := html.EscapeString(displayName)
	var subject, heading, lead string
	switch notificationType {
	case constant.NotificationTypeMilestone:
		subject = fmt.Sprintf("%s reached a wellness milestone", displayName)
		heading = "A milestone worth celebrating"
		lead = fmt.Sprintf("<strong>%s</strong> has reached a milestone in their mental wellness journey.", escapedName)
	case constant.NotificationTypeWeeklyProgress:
		subject = fmt.Sprintf("Weekly wellness update for %s", displayName)
		heading = "Weekly progress update"
		lead = fmt.Sprintf("Here is this week's summary of <strong>%s</strong>'s engagement with their wellness app.", escapedName)
	default:
		subject = fmt.Sprintf("An update about %s", displayName)
		heading = "A gentle heads-up"
		lead = fmt.Sprintf("<strong>%s</strong>'s wellness app noticed patterns you may want to know about.", escapedName)
	}

	var details string
	if len(progressData) > 0 {
		rows := make([]string, 0, len(progressData))
		for k, v := range progressData {
			rows = append(rows, fmt.Sprintf("<li><strong>%s:</strong> %s</li>",
				html.EscapeString(k), html.EscapeString(fmt.Sprintf("%v", v))))
		}
		details = "<ul>" + strings.Join(rows, "") + "</ul>"
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #f0fdf4; padding: 20px; border-radius: 8px; border-left: 4px solid #16a34a; margin-bottom: 20px;">
    <h2 style="color: #16a34a; margin-top: 0;">%s</h2>
    <p>%s</p>
    %s
  </div>
  <p style="color: #6b7280; font-size: 12px;">Sent %s.</p>
</div>`, heading, lead, details, time.Now().Format(time.RFC1123))

	return subject, body
}

// maskEmail hides most of the local part so responses never leak the full
// contact address back to the client.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return email
	}
	return email[:1] + strings.Repeat("*", at-1) + email[at:]
}
