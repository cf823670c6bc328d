package email

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPConfig holds the connection settings for an authenticated SMTP relay.
type SMTPConfig struct {
	Host     string // e.g. "smtp.gmail.com"
	Port     string // e.g. "587"
	Username string
	Password string
}

// SMTPSender delivers messages through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTPSender. It does not dial — connection problems
// surface on the first Send.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, logger: logger}
}

var _ Sender = (*SMTPSender)(nil)

// Send submits the message as a multipart/alternative MIME mail (plain text
// part first, HTML part second, per RFC 2046: last part is preferred).
//
// smtp.SendMail blocks until the relay accepts or rejects the message; there
// is no retry. The ctx parameter is accepted for interface symmetry —
// net/smtp predates context and offers no cancellation hook.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	const boundary = "mixed-boundary-design-crm"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, []byte(b.String())); err != nil {
		s.logger.Error("smtp send failed",
			slog.String("to", msg.To),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("email: sending via %s: %w", s.cfg.Host, err)
	}

	s.logger.Info("email sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// NopSender is used when no SMTP configuration is present. The server still
// starts and serves CRUD traffic; send endpoints fail with a clear error.
type NopSender struct {
	Logger *slog.Logger
}

var _ Sender = (*NopSender)(nil)

func (n *NopSender) Send(_ context.Context, msg Message) error {
	if n.Logger != nil {
		n.Logger.Warn("email transport not configured — dropping message",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
		)
	}
	return fmt.Errorf("email: no transport configured")
}
