package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildInvitationEmail(t *testing.T) {
	e := BuildInvitationEmail("lea@example.com", InvitationEmailData{
		SiteName:         "IncubaHub",
		OrganizationName: "Incubateur <Nord>",
		InviterName:      "Marie",
		AcceptURL:        "https://hub.example.com/invitations/abc/accept",
		ExpiresIn:        "7 jours",
	})

	assert.Equal(t, "lea@example.com", e.To)
	assert.Contains(t, e.Subject, "Incubateur <Nord>")
	assert.Contains(t, e.TextBody, "Marie vous invite")
	assert.Contains(t, e.TextBody, "https://hub.example.com/invitations/abc/accept")
	assert.Contains(t, e.HTMLBody, "Incubateur &lt;Nord&gt;")
	assert.NotContains(t, e.HTMLBody, "<Nord>")
}

func TestBuildMIME(t *testing.T) {
	msg := string(Build("hub@example.com", Email{To: "a@example.com", Subject: "Invitation à rejoindre", TextBody: "texte", HTMLBody: "<p>html</p>"}))

	assert.True(t, strings.HasPrefix(msg, "From: hub@example.com\r\n"))
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8")
	assert.True(t, strings.HasSuffix(msg, "--"+boundary+"--\r\n"))
}

func TestNewWithoutHostLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(Config{}, zap.New(core))

	_, ok := s.(LogSender)
	assert.True(t, ok, "expected LogSender without SMTP host")
	assert.NoError(t, s.Send(context.Background(), Email{To: "a@example.com", Subject: "x"}))
	assert.Equal(t, 1, logs.FilterField(zap.String("to", "a@example.com")).Len())
}
