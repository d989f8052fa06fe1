// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers account emails: address verification and password reset.

Delivery is best effort. Callers log a failed send and carry on; a broken
mail provider never fails a registration or a reset request.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ZewK3/hrportal/internal/platform/config"
)

// Message is a rendered email ready for a provider.
type Message struct {
	To      string
	Name    string
	Subject string
	Text    string
}

// Sender delivers a rendered [Message].
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Mailer renders account emails and hands them to a [Sender].
type Mailer struct {
	sender      Sender
	frontendURL string
}

// NewMailer creates a Mailer whose links point at frontendURL.
func NewMailer(sender Sender, frontendURL string) *Mailer {
	return &Mailer{sender: sender, frontendURL: strings.TrimRight(frontendURL, "/")}
}

// NewFromConfig selects the provider named by MAIL_PROVIDER.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Mailer {
	var sender Sender = NewLogSender(logger)
	if strings.EqualFold(cfg.Mail.Provider, "sendgrid") {
		sender = NewSendGridSender(cfg.Mail.SendGridAPIKey, cfg.Mail.From)
	}
	return NewMailer(sender, cfg.FrontendURL)
}

// SendVerification mails the email-verification link.
func (m *Mailer) SendVerification(ctx context.Context, to, name, token string) error {
	link := m.link("/verify-email", token)
	return m.sender.Send(ctx, Message{
		To:      to,
		Name:    name,
		Subject: "Verify your HR portal account",
		Text: fmt.Sprintf("Hello %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\n"+
			"Your account will be activated once the address is confirmed.\n", name, link),
	})
}

// SendPasswordReset mails the password-reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := m.link("/reset-password", token)
	return m.sender.Send(ctx, Message{
		To:      to,
		Name:    name,
		Subject: "Reset your HR portal password",
		Text: fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. The link below is valid for 24 hours:\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n", name, link),
	})
}

func (m *Mailer) link(path, token string) string {
	return m.frontendURL + path + "?token=" + url.QueryEscape(token)
}

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a development sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender].
func (s *LogSender) Send(ctx context.Context, message Message) error {
	s.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Text),
	)
	return nil
}
