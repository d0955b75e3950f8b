package mailing

import (
	"Markit-Pantry/internal/utils"
	"fmt"
	"html"
	"strconv"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		config MailConfig
		dialer *gomail.Dialer
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns nil when SMTP_HOST is not configured.
func NewMailer() (Mailer, error) {
	return NewMailerWithConfig(LoadMailConfig())
}

func NewMailerWithConfig(cfg MailConfig) (Mailer, error) {
	if cfg.SMTPHost == "" {
		return nil, nil
	}

	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", cfg.SMTPPort, err)
	}

	return &smtpMailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPEmail, cfg.SMTPPassword),
	}, nil
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	return m.dialer.DialAndSend(NewMessage(m.config, toEmail, subject, body))
}

func NewMessage(cfg MailConfig, toEmail string, subject string, body string) *gomail.Message {
	mailer := gomail.NewMessage()
	if cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", cfg.SMTPEmail, cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	return mailer
}

func WelcomeBody(appURL, username string) string {
	appURL = html.EscapeString(appURL)
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>your Markit pantry is ready. Sign in at <a href="%s/login">%s/login</a> and start scanning.</p>`,
		html.EscapeString(username), appURL, appURL,
	)
}
