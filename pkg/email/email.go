// Package email delivers one-time codes to members.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
	"unicode"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender hands a message to a transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of sending them. Used when no
// SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email delivery (log only)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

// SMTPSender relays through an SMTP server with optional PLAIN auth.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(addr, from, username, password string) *SMTPSender {
	s := &SMTPSender{addr: addr, from: from}
	if username != "" {
		host := addr
		if i := strings.LastIndexByte(addr, ':'); i > 0 {
			host = addr[:i]
		}
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := strings.Join([]string{
		"From: " + s.from,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		msg.Body,
	}, "\r\n")
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// OTPMailer formats voting codes and hands them to a Sender.
type OTPMailer struct {
	sender Sender
}

func NewOTPMailer(sender Sender) *OTPMailer {
	return &OTPMailer{sender: sender}
}

// DeliverOTP sends code to address.
func (m *OTPMailer) DeliverOTP(ctx context.Context, address, code string, expiresAt time.Time) error {
	first, _ := DeriveNameFromEmail(address)
	return m.sender.Send(ctx, Message{
		To:      address,
		Subject: "Your voting code",
		Body: fmt.Sprintf("Hello %s,\n\nYour one-time voting code is %s. It expires at %s.\n"+
			"Do not share this code with anyone.\n", first, code, expiresAt.UTC().Format(time.RFC1123)),
	})
}

// DeriveNameFromEmail guesses a first and last name from the local part of
// an address, for greetings.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Member", "Member"
	}

	first := capitalize(parts[0])
	last := "Member"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
