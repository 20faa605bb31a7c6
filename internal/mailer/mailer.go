// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends guest notification email over SMTP. When no SMTP
// host is configured the no-op mailer is used and sends are logged only.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/olegiv/orent-go/internal/model"
	"github.com/olegiv/orent-go/internal/service"
)

// SMTP delivers mail through the server in the email settings.
type SMTP struct {
	settings model.EmailSettings
	logger   *slog.Logger
}

// NewSMTP creates an SMTP mailer from the stored email settings.
func NewSMTP(settings model.EmailSettings, logger *slog.Logger) *SMTP {
	return &SMTP{settings: settings, logger: logger}
}

// Send delivers one plain-text message. The context deadline is not
// honored mid-send; smtp.SendMail has no context hook, so callers should
// keep bodies small.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.settings.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.settings.SMTPHost, m.settings.SMTPPort)

	var auth smtp.Auth
	if m.settings.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.settings.SMTPUsername, m.settings.SMTPPassword, m.settings.SMTPHost)
	}

	from := m.settings.FromAddress
	headerFrom := from
	if m.settings.FromName != "" {
		headerFrom = fmt.Sprintf("%s <%s>", m.settings.FromName, from)
	}

	msg := buildMessage(headerFrom, to, subject, body)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	m.logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// NoOp logs sends without delivering anything. Used when notifications
// are disabled or SMTP is not configured.
type NoOp struct {
	logger *slog.Logger
}

// NewNoOp creates a mailer that only logs.
func NewNoOp(logger *slog.Logger) *NoOp {
	return &NoOp{logger: logger}
}

func (m *NoOp) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info("mail suppressed, smtp not configured", "to", to, "subject", subject)
	return nil
}

// FromSettings picks the SMTP mailer when email is configured and the
// no-op mailer otherwise.
func FromSettings(settings model.EmailSettings, logger *slog.Logger) service.Mailer {
	if settings.Enabled() {
		return NewSMTP(settings, logger)
	}
	return NewNoOp(logger)
}
