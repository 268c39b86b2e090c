package mail

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/21haoxingxiu/core/internal/config"
)

func TestTemplatesBuiltin(t *testing.T) {
	tpls := NewTemplates(&config.Config{}, zap.NewNop())

	src, err := tpls.Read("newsletter")
	require.NoError(t, err)
	require.Contains(t, src, "{{ .UnsubscribeLink }}")

	_, err = tpls.Read("missing")
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestTemplatesDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "newsletter.html"), []byte(`<p>{{ .Title }}</p>`), 0o600))
	tpls := NewTemplates(&config.Config{MailTemplateDir: dir}, zap.NewNop())

	tpl, err := tpls.Compile("newsletter")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tpl.Execute(&buf, map[string]string{"Title": "<b>hi</b>"}))
	require.Equal(t, "<p>&lt;b&gt;hi&lt;/b&gt;</p>", buf.String())
}

func TestTemplatesFallbackWhenDirMissesFile(t *testing.T) {
	tpls := NewTemplates(&config.Config{MailTemplateDir: t.TempDir()}, zap.NewNop())

	_, err := tpls.Compile("newsletter")
	require.NoError(t, err)
}

func TestTemplatesDefaults(t *testing.T) {
	tpls := NewTemplates(&config.Config{}, zap.NewNop())
	_, ok := tpls.Defaults("newsletter")
	require.False(t, ok)

	tpls.Register("newsletter", "defaults")
	got, ok := tpls.Defaults("newsletter")
	require.True(t, ok)
	require.Equal(t, "defaults", got)
}

func TestNewSenderDisabled(t *testing.T) {
	sender := NewSender(&config.Config{MailEnable: false, MailHost: "smtp.example.com"}, zap.NewNop())
	_, ok := sender.(*noopSender)
	require.True(t, ok)
	require.NoError(t, sender.Send(context.Background(), Message{To: "a@x.io"}))

	sender = NewSender(&config.Config{MailEnable: true, MailHost: "smtp.example.com", MailPort: 465}, zap.NewNop())
	_, ok = sender.(*SMTPSender)
	require.True(t, ok)
}

func TestNewSenderWarnsWithoutHost(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sender := NewSender(&config.Config{MailEnable: true}, zap.New(core))

	_, ok := sender.(*noopSender)
	require.True(t, ok)
	require.Equal(t, 1, logs.FilterMessageSnippet("MAIL_HOST is empty").Len())
}

func TestSMTPMessageHeaders(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())

	m, err := s.message(Message{
		From:    `"Blög" <noreply@example.com>`,
		To:      "a@x.io",
		Subject: "[Blog] published new content",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	headers, _, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	require.Regexp(t, `(?m)^Message-ID: <.+>\r$`, headers)
	require.Regexp(t, `(?m)^Date: `, headers)
	require.Contains(t, headers, "Subject: [Blog] published new content")
	require.Contains(t, headers, "<noreply@example.com>")
	require.NotContains(t, headers, "Blög", "non-ASCII display names are encoded")
	require.Contains(t, headers, "text/html")
	require.Contains(t, raw, "<p>hi</p>")
}

func TestSMTPSendRejectsBadAddress(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())

	err := s.Send(context.Background(), Message{From: "not an address", To: "a@x.io"})
	require.ErrorContains(t, err, "parse from address")
}

func TestSMTPSendRejectsBadRecipient(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())

	err := s.Send(context.Background(), Message{From: "noreply@example.com", To: "nobody"})
	require.ErrorContains(t, err, "parse recipient address")
}

func TestSMTPSendHonoursContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, Message{From: "noreply@example.com", To: "a@x.io", HTML: "<p>hi</p>"})
	require.ErrorContains(t, err, "smtp send")
}
