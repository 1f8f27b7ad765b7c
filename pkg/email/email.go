package email

import (
	"bytes"
	"fmt"
	"html/template"

	"jobmarket-backend/config"

	"gopkg.in/gomail.v2"
)

// Notifier delivers a message to a single recipient. A returned error means
// the message was not handed to the transport.
type Notifier interface {
	Send(to, subject, htmlBody string) error
}

// EmailService sends mail over SMTP
type EmailService struct {
	dialer    *gomail.Dialer
	fromEmail string
	username  string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		fromEmail: cfg.SMTPFromEmail,
		username:  cfg.SMTPUsername,
	}
}

func (s *EmailService) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.fromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// IsConfigured checks if the email service has SMTP credentials
func (s *EmailService) IsConfigured() bool {
	return s.dialer.Host != "" && s.username != ""
}

const verificationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <p>Hello {{.Name}},</p>
    <p>Your verification code is:</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
    <p>If you did not request this, you can ignore this email.</p>
</body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <p>Hello {{.Name}},</p>
    <p>We received a request to reset your password. Use the link below to choose a new one:</p>
    <p><a href="{{.Link}}">{{.Link}}</a></p>
    <p>The link stops working once your password has been changed.</p>
</body>
</html>`

var (
	verificationTmpl  = template.Must(template.New("verification").Parse(verificationTemplate))
	passwordResetTmpl = template.Must(template.New("password_reset").Parse(passwordResetTemplate))
)

// VerificationBody renders the HTML for a verification code email.
func VerificationBody(name, code string) (string, error) {
	var buf bytes.Buffer
	if err := verificationTmpl.Execute(&buf, map[string]string{"Name": name, "Code": code}); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return buf.String(), nil
}

// PasswordResetBody renders the HTML for a password reset email.
func PasswordResetBody(name, link string) (string, error) {
	var buf bytes.Buffer
	if err := passwordResetTmpl.Execute(&buf, map[string]string{"Name": name, "Link": link}); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return buf.String(), nil
}
