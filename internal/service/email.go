package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/email"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository"
)

// SendContactsInput is the payload for an ad-hoc send: the caller picks
// individual contact ids. From is optional and falls back to the configured
// sender address.
type SendContactsInput struct {
	To         string  `json:"to"`
	From       string  `json:"from"`
	Subject    string  `json:"subject"`
	Message    string  `json:"message"`
	ContactIDs []int64 `json:"contactIds"`
}

// SendListInput is the payload for sending a whole curated list. From is
// required here — the recruiter-facing mail should come from the user's own
// address, not the system default.
type SendListInput struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// EmailService renders contact selections into text/HTML email bodies and
// hands them to the outbound Sender port. One call per request, boolean
// outcome, no retry — reliability layers belong outside the core.
type EmailService struct {
	contacts    repository.ContactRepository
	lists       repository.ListRepository
	sender      email.Sender
	defaultFrom string
	logger      *slog.Logger
}

// NewEmailService creates an EmailService. defaultFrom is used when an
// ad-hoc send omits the from address.
func NewEmailService(
	contacts repository.ContactRepository,
	lists repository.ListRepository,
	sender email.Sender,
	defaultFrom string,
	logger *slog.Logger,
) *EmailService {
	return &EmailService{
		contacts:    contacts,
		lists:       lists,
		sender:      sender,
		defaultFrom: defaultFrom,
		logger:      logger,
	}
}

// SendContacts emails an ad-hoc selection of contacts.
//
// Stale ids — contacts deleted between selection and send — are silently
// skipped rather than failing the whole send. The selection UI can lag the
// contact pool and a half-useful email beats an error.
func (s *EmailService) SendContacts(ctx context.Context, in SendContactsInput) error {
	if err := validateAddress("to", in.To); err != nil {
		return err
	}
	if strings.TrimSpace(in.Subject) == "" {
		return apperror.ValidationFailed("subject", "subject is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return apperror.ValidationFailed("message", "message is required")
	}
	if in.ContactIDs == nil {
		return apperror.ValidationFailed("contactIds", "contactIds is required")
	}

	from := strings.TrimSpace(in.From)
	if from == "" {
		from = s.defaultFrom
	}
	if err := validateAddress("from", from); err != nil {
		return err
	}

	contacts := make([]model.Contact, 0, len(in.ContactIDs))
	for _, id := range in.ContactIDs {
		contact, err := s.contacts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				continue // stale id
			}
			return fmt.Errorf("resolving contact %d: %w", id, err)
		}
		contacts = append(contacts, *contact)
	}

	msg := email.Message{
		To:      in.To,
		From:    from,
		Subject: in.Subject,
		Text:    buildContactsText(in.Message, contacts),
		HTML:    buildContactsHTML(in.Message, contacts),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("contact email dispatch failed",
			slog.String("to", in.To),
			slog.Int("contacts", len(contacts)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sending contact email: %w", err)
	}

	s.logger.Info("contact email sent",
		slog.String("to", in.To),
		slog.Int("contacts", len(contacts)),
	)
	return nil
}

// SendList emails a curated list: heading, description, and one card per
// member including notes. Returns apperror.ErrNotFound if the list is gone.
func (s *EmailService) SendList(ctx context.Context, listID int64, in SendListInput) error {
	if err := validateAddress("to", in.To); err != nil {
		return err
	}
	if err := validateAddress("from", in.From); err != nil {
		return err
	}
	if strings.TrimSpace(in.Subject) == "" {
		return apperror.ValidationFailed("subject", "subject is required")
	}

	list, err := s.lists.GetListByID(ctx, listID)
	if err != nil {
		return err
	}
	contacts, err := s.lists.ListContacts(ctx, listID)
	if err != nil {
		return fmt.Errorf("resolving list %d contacts: %w", listID, err)
	}

	msg := email.Message{
		To:      in.To,
		From:    in.From,
		Subject: in.Subject,
		Text:    buildListText(list, in.Message, contacts),
		HTML:    buildListHTML(list, in.Message, contacts),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("list email dispatch failed",
			slog.Int64("listId", listID),
			slog.String("to", in.To),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("sending list email: %w", err)
	}

	s.logger.Info("list email sent",
		slog.Int64("listId", listID),
		slog.String("to", in.To),
		slog.Int("contacts", len(contacts)),
	)
	return nil
}

// buildContactsText renders the plain-text body for an ad-hoc send:
// the caller's message, then one bullet per contact with optional
// LinkedIn/Portfolio suffixes.
func buildContactsText(message string, contacts []model.Contact) string {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\nCurated Design Talent:\n\n")

	for _, c := range contacts {
		b.WriteString("• " + c.FullName() + " - " + c.Role + " at " + c.Company)
		if c.LinkedIn != "" {
			b.WriteString(" | LinkedIn: " + c.LinkedIn)
		}
		if c.Portfolio != "" {
			b.WriteString(" | Portfolio: " + c.Portfolio)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// buildContactsHTML renders the HTML body for an ad-hoc send. All
// user-supplied text is escaped; newlines in the message become <br>.
func buildContactsHTML(message string, contacts []model.Contact) string {
	var b strings.Builder
	b.WriteString("<p>" + htmlBreaks(message) + "</p>\n")
	b.WriteString("<h3>Curated Design Talent:</h3>\n<ul>\n")

	for _, c := range contacts {
		b.WriteString("<li><strong>" + html.EscapeString(c.FullName()) + "</strong> - " +
			html.EscapeString(c.Role) + " at " + html.EscapeString(c.Company))
		if c.LinkedIn != "" {
			b.WriteString(` | <a href="` + html.EscapeString(c.LinkedIn) + `">LinkedIn</a>`)
		}
		if c.Portfolio != "" {
			b.WriteString(` | <a href="` + html.EscapeString(c.Portfolio) + `">Portfolio</a>`)
		}
		b.WriteString("</li>\n")
	}

	b.WriteString("</ul>\n")
	return b.String()
}

// buildListText renders the plain-text body for a list send.
func buildListText(list *model.List, message string, contacts []model.Contact) string {
	var b strings.Builder
	b.WriteString(list.Name + "\n")
	if list.Description != "" {
		b.WriteString(list.Description + "\n")
	}
	if message != "" {
		b.WriteString(message + "\n")
	}
	fmt.Fprintf(&b, "\nDesign Talent (%d contacts):\n\n", len(contacts))

	for _, c := range contacts {
		b.WriteString(c.FullName() + "\n")
		b.WriteString("Role: " + c.Role + "\n")
		b.WriteString("Company: " + c.Company + "\n")
		if c.LinkedIn != "" {
			b.WriteString("LinkedIn: " + c.LinkedIn + "\n")
		}
		if c.Portfolio != "" {
			b.WriteString("Portfolio: " + c.Portfolio + "\n")
		}
		if c.Notes != "" {
			b.WriteString("Notes: " + c.Notes + "\n")
		}
		b.WriteString("---\n")
	}

	b.WriteString("\nSent from Design CRM\n")
	return b.String()
}

// buildListHTML renders the HTML body for a list send: a heading, the
// optional description and message, then one card per contact with the
// notes in a muted italic block.
func buildListHTML(list *model.List, message string, contacts []model.Contact) string {
	var b strings.Builder

	b.WriteString(`<div style="max-width: 600px; margin: 0 auto; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;">` + "\n")
	b.WriteString(`<h1 style="color: #1e293b; margin-bottom: 16px;">` + html.EscapeString(list.Name) + "</h1>\n")
	if list.Description != "" {
		b.WriteString(`<p style="color: #475569; margin-bottom: 24px;">` + html.EscapeString(list.Description) + "</p>\n")
	}
	if message != "" {
		b.WriteString(`<p style="color: #374151; margin-bottom: 24px;">` + htmlBreaks(message) + "</p>\n")
	}

	fmt.Fprintf(&b, `<h2 style="color: #1e293b; margin-bottom: 16px; font-size: 18px;">Design Talent (%d contacts)</h2>%s`, len(contacts), "\n")

	for _, c := range contacts {
		b.WriteString(`<div style="border: 1px solid #e2e8f0; border-radius: 8px; padding: 16px; margin-bottom: 12px; background: #f8fafc;">` + "\n")
		b.WriteString(`<h3 style="margin: 0 0 8px 0; color: #1e293b; font-size: 16px; font-weight: 600;">` + html.EscapeString(c.FullName()) + "</h3>\n")
		b.WriteString(`<p style="margin: 4px 0; color: #475569; font-size: 14px;"><strong>Role:</strong> ` + html.EscapeString(c.Role) + "</p>\n")
		b.WriteString(`<p style="margin: 4px 0; color: #475569; font-size: 14px;"><strong>Company:</strong> ` + html.EscapeString(c.Company) + "</p>\n")
		if c.LinkedIn != "" {
			b.WriteString(`<p style="margin: 4px 0;"><a href="` + html.EscapeString(c.LinkedIn) + `" style="color: #3b82f6; text-decoration: none; font-size: 14px;">LinkedIn Profile</a></p>` + "\n")
		}
		if c.Portfolio != "" {
			b.WriteString(`<p style="margin: 4px 0;"><a href="` + html.EscapeString(c.Portfolio) + `" style="color: #3b82f6; text-decoration: none; font-size: 14px;">Portfolio</a></p>` + "\n")
		}
		if c.Notes != "" {
			b.WriteString(`<p style="margin: 8px 0 0 0; color: #64748b; font-size: 12px; font-style: italic;">` + html.EscapeString(c.Notes) + "</p>\n")
		}
		b.WriteString("</div>\n")
	}

	b.WriteString(`<div style="margin-top: 32px; padding-top: 16px; border-top: 1px solid #e2e8f0; text-align: center;">` +
		`<p style="color: #64748b; font-size: 12px; margin: 0;">Sent from Design CRM</p></div>` + "\n")
	b.WriteString("</div>\n")

	return b.String()
}

// htmlBreaks escapes s for HTML and converts newlines to <br>.
func htmlBreaks(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// validateAddress checks that addr parses as a single RFC 5322 address.
func validateAddress(field, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return apperror.ValidationFailed(field, field+" address is required")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return apperror.ValidationFailed(field, field+" is not a valid email address")
	}
	return nil
}
