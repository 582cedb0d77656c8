package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"eventreg/internal/domain/notification"
)

// Mailer renders notification templates and hands them to a Sender.
type Mailer struct {
	sender  Sender
	from    string
	replyTo string
	md      goldmark.Markdown
}

// NewMailer creates a Mailer. Raw HTML in templates is escaped.
// PRE: sender is non-nil
// POST: Returns a ready-to-use mailer
func NewMailer(sender Sender, from, replyTo string) *Mailer {
	return &Mailer{
		sender:  sender,
		from:    from,
		replyTo: replyTo,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
		),
	}
}

// Send renders templateID for recipient and delivers it.
// PRE: templateID is a known notification template
// POST: One email handed to the Sender, or an error describing which step failed
func (m *Mailer) Send(ctx context.Context, templateID, recipient, locale string, params notification.Params) error {
	tmpl, err := notification.Lookup(templateID, locale)
	if err != nil {
		return err
	}
	msg, err := tmpl.Render(recipient, params)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateID, err)
	}
	var html bytes.Buffer
	if err := m.md.Convert([]byte(msg.Markdown), &html); err != nil {
		return fmt.Errorf("convert %s to html: %w", templateID, err)
	}

	res, err := m.sender.Send(ctx, SendRequest{
		To:      []string{msg.To},
		From:    m.from,
		Subject: msg.Subject,
		HTML:    html.String(),
		Text:    msg.Markdown,
		ReplyTo: m.replyTo,
	})
	if err != nil {
		return err
	}
	slog.Info("email_event", "event", "notification_sent", "template", templateID, "message_id", res.MessageID)
	return nil
}
