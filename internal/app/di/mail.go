package di

import (
	"log/slog"
	"time"

	"taskmanager/internal/platform/config"
	"taskmanager/internal/platform/mail"
	"taskmanager/internal/shared/ratelimiter"
)

// NewMailQueue creates the background notifier. Without a SendGrid key
// messages are only logged.
func NewMailQueue(cfg config.MailConfig) *mail.Queue {
	var sender mail.Sender = mail.LogSender{}
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.From, cfg.FromName)
	} else {
		slog.Warn("SENDGRID_API_KEY is not set; emails will be logged instead of sent")
	}

	qcfg := mail.DefaultQueueConfig()
	qcfg.Workers = cfg.Workers
	qcfg.Size = cfg.QueueSize

	return mail.NewQueue(qcfg, sender, ratelimiter.NewRateLimiter(cfg.RatePerMinute, time.Minute))
}
