package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender, or a sender that only logs when mail is
// disabled or no host is configured.
func NewSender(cfg *config.Config, logger *zap.Logger) Sender {
	if !cfg.MailEnable {
		return &noopSender{log: logger}
	}
	if cfg.MailHost == "" {
		logger.Warn("MAIL_ENABLE is set but MAIL_HOST is empty; newsletters will not be sent")
		return &noopSender{log: logger}
	}
	return NewSMTPSender(SMTPConfig{
		Host:    cfg.MailHost,
		Port:    cfg.MailPort,
		User:    cfg.MailUser,
		Pass:    cfg.MailPass,
		Timeout: cfg.MailSendTimeout,
	}, logger)
}

type noopSender struct {
	log *zap.Logger
}

func (n *noopSender) Send(_ context.Context, msg Message) error {
	n.log.Debug("mail disabled, dropping message", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
