package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []Message
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email, first, last string
	}{
		{"ravi.kumar@example.org", "Ravi", "Kumar"},
		{"asha@example.org", "Asha", "Member"},
		{"@example.org", "Member", "Member"},
		{"@", "Member", "Member"},
		{"ravi.kumar", "Ravi", "Kumar"},
		{"a_b-c@example.org", "A", "C"},
	}
	for _, tt := range tests {
		first, last := DeriveNameFromEmail(tt.email)
		assert.Equal(t, tt.first, first, tt.email)
		assert.Equal(t, tt.last, last, tt.email)
	}
}

func TestOTPMailer(t *testing.T) {
	sender := &captureSender{}
	mailer := NewOTPMailer(sender)
	expires := time.Date(2026, 5, 1, 10, 5, 0, 0, time.UTC)

	require.NoError(t, mailer.DeliverOTP(context.Background(), "meena.rao@example.org", "042917", expires))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "meena.rao@example.org", msg.To)
	assert.Contains(t, msg.Body, "Hello Meena")
	assert.Contains(t, msg.Body, "042917")
}
