// Package notification holds the registration email templates. Bodies are
// Markdown; the email adapter converts them to HTML before sending.
package notification

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
)

// Template identifiers.
const (
	TemplateRegistrationConfirm = "registration_confirm"
	TemplateAdminNotification   = "admin_notification"
)

// DefaultLocale is used for every registration email.
const DefaultLocale = "en"

// Domain errors
var (
	ErrUnknownTemplate = errors.New("unknown email template")
	ErrEmptyRecipient  = errors.New("recipient is required")
)

// Params are the values substituted into a template.
type Params struct {
	Name      string
	Email     string
	EventName string
	Category  string
	Date      string
}

// Template is a localized subject/body pair.
type Template struct {
	ID      string
	Locale  string
	Subject string
	Body    string
}

// Message is a rendered template ready for the mail adapter.
type Message struct {
	To       string
	Subject  string
	Markdown string
}

var templates = map[string]map[string]Template{
	TemplateRegistrationConfirm: {
		DefaultLocale: {
			ID:      TemplateRegistrationConfirm,
			Locale:  DefaultLocale,
			Subject: "Registration confirmed: {{.EventName}}",
			Body: `Hello {{.Name}},

Thank you for registering. Your place is confirmed.

- **Event:** {{.EventName}}
- **Category:** {{.Category}}
- **Date:** {{.Date}}

We look forward to seeing you.
`,
		},
	},
	TemplateAdminNotification: {
		DefaultLocale: {
			ID:      TemplateAdminNotification,
			Locale:  DefaultLocale,
			Subject: "New registration: {{.EventName}}",
			Body: `A new registration was received.

- **Name:** {{.Name}}
- **Email:** {{.Email}}
- **Event:** {{.EventName}}
- **Category:** {{.Category}}
- **Date:** {{.Date}}
`,
		},
	},
}

// Lookup returns the template for id in locale, falling back to DefaultLocale.
func Lookup(id, locale string) (Template, error) {
	byLocale, ok := templates[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	if t, ok := byLocale[locale]; ok {
		return t, nil
	}
	return byLocale[DefaultLocale], nil
}

// Render substitutes params into the template.
// PRE: recipient is non-empty
// POST: Message carries the rendered subject and Markdown body
func (t Template) Render(recipient string, params Params) (Message, error) {
	if recipient == "" {
		return Message{}, ErrEmptyRecipient
	}
	subject, err := execute(t.ID+".subject", t.Subject, params)
	if err != nil {
		return Message{}, err
	}
	body, err := execute(t.ID+".body", t.Body, params)
	if err != nil {
		return Message{}, err
	}
	return Message{To: recipient, Subject: subject, Markdown: body}, nil
}

func execute(name, text string, params Params) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
