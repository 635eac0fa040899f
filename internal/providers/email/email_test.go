package email

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/smallbiznis/homestead/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newCapturingSMTP(out *[]capturedMail) *SMTPProvider {
	p := NewSMTP(Config{Host: "smtp.example.com", Port: 587, From: "site@example.com"})
	p.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*out = append(*out, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return p
}

func TestRender_EscapesInput(t *testing.T) {
	body, err := Render("lead_new", map[string]any{
		"Site":   config.DefaultSiteConfig(),
		"Notice": LeadNotice{Name: "<b>Jo</b>", Email: "jo@example.com", Interest: "plan"},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "&lt;b&gt;Jo&lt;/b&gt;")
	assert.Contains(t, body, "jo@example.com")

	_, err = Render("missing", nil)
	assert.Error(t, err)
}

func TestNotifier_LeadSubmitted(t *testing.T) {
	var sent []capturedMail
	cfg := config.Config{Email: config.EmailConfig{LeadNotify: []string{"sales@example.com"}}}
	site := config.NewStaticSiteConfigHolder(config.DefaultSiteConfig())
	notifier := NewNotifier(cfg, newCapturingSMTP(&sent), site, zap.NewNop())

	err := notifier.LeadSubmitted(context.Background(), LeadNotice{Name: "Jo", Email: "jo@example.com", Interest: "general"})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "smtp.example.com:587", sent[0].addr)
	assert.Equal(t, []string{"sales@example.com"}, sent[0].to)
	assert.Contains(t, sent[0].msg, "Subject: [Homestead Builders] New inquiry from Jo")
}

func TestNotifier_NoRecipientsIsNoop(t *testing.T) {
	var sent []capturedMail
	site := config.NewStaticSiteConfigHolder(config.DefaultSiteConfig())
	notifier := NewNotifier(config.Config{}, newCapturingSMTP(&sent), site, zap.NewNop())

	require.NoError(t, notifier.ConfigurationSubmitted(context.Background(), ConfigurationNotice{CustomerName: "Jo"}))
	assert.Empty(t, sent)
}

func TestNewFromConfig_NoHostIsNoop(t *testing.T) {
	_, ok := NewFromConfig(config.Config{}).(*NoOpProvider)
	assert.True(t, ok)
}
