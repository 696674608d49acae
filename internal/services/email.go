package services

import (
	"crypto/tls"
	"fmt"

	"github.com/MForbesPrim/primith-portal/internal/config"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

type ContactRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Message      string `json:"message" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

func (s *EmailService) SendContactEmail(req ContactRequest) error {
	subject := "New Contact Form Submission"
	body := fmt.Sprintf(`
<p><strong>Name:</strong> %s %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Company:</strong> %s</p>
<p><strong>Message:</strong><br>%s</p>`,
		req.FirstName, req.LastName, req.Email, req.Phone, req.Company, req.Message)

	return s.SendEmail(s.config.ContactEmail, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.config.PortalBaseURL, resetToken)

	subject := "Password Reset Request"
	body := fmt.Sprintf(`
<p>Hello,</p>
<p>We received a request to reset the password for the account associated with <strong>%s</strong>.</p>
<p><a href="%s">Reset your password</a></p>
<p>Or copy and paste this link in your browser:</p>
<p>%s</p>
<p>This link expires in 1 hour. If you didn't request a reset, you can ignore this email.</p>`,
		email, resetLink, resetLink)

	return s.SendEmail(email, subject, body)
}

func (s *EmailService) SendInvitationEmail(email, orgName, inviteToken string) error {
	inviteLink := fmt.Sprintf("%s/accept-invite?token=%s", s.config.PortalBaseURL, inviteToken)

	subject := fmt.Sprintf("You've been invited to join %s on Primith", orgName)
	body := fmt.Sprintf(`
<p>Hello,</p>
<p>You have been invited to join <strong>%s</strong> on the Primith portal.</p>
<p><a href="%s">Accept your invitation</a></p>
<p>Or copy and paste this link in your browser:</p>
<p>%s</p>
<p>This invitation expires in 7 days.</p>`,
		orgName, inviteLink, inviteLink)

	return s.SendEmail(email, subject, body)
}
