package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// DeliveryResult reports a single best-effort send attempt. Failure is data,
// not an error: the caller embeds the outcome in its audit record and moves
// on. Nothing here retries.
type DeliveryResult struct {
	Success     bool
	ProviderRef string
	Error       string
}

type IEmailService interface {
	// Send delivers one HTML email. It never panics and never returns an
	// error; the outcome is captured in the result.
	Send(toEmail, subject, htmlBody string) DeliveryResult
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	configured  bool
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		configured:  host != "" && username != "",
	}
}

func (s *emailService) Send(toEmail, subject, htmlBody string) DeliveryResult {
	if !s.configured {
		return DeliveryResult{
			Success: false,
			Error:   "SMTP not configured. Set SMTP_HOST, SMTP_EMAIL and SMTP_PASSWORD.",
		}
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return DeliveryResult{
			Success: false,
			Error:   fmt.Sprintf("smtp send failed: %v", err),
		}
	}

	return DeliveryResult{
		Success:     true,
		ProviderRef: fmt.Sprintf("smtp:%s", s.dialer.Host),
	}
}
