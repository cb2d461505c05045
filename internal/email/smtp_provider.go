package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config *Config
}

func NewSMTPProvider(config *Config) *SMTPProvider {
	return &SMTPProvider{config: config}
}

func (p *SMTPProvider) Send(to, subject, body string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		p.config.SMTPHost,
		p.config.SMTPPort,
		p.config.SMTPUsername,
		p.config.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendPasswordReset(to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", p.config.ResetBaseURL, token)

	body := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>You requested a password reset for your Anamny account.</p>
		<p><a href="%s">Click here to reset your password</a></p>
		<p>If you did not request this, you can safely ignore this email.</p>
	`, resetURL)

	return p.Send(to, "Reset your Anamny password", body)
}

func (p *SMTPProvider) Validate() error {
	if p.config.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.SMTPPort <= 0 || p.config.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.SMTPPort)
	}
	return nil
}
