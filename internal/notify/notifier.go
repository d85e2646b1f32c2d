package notify

import (
	"context"
	"errors"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/structures"
)

// ErrMessageNotFound is returned by Edit when the message no longer exists.
var ErrMessageNotFound = errors.New("message not found")

type Notifier interface {
	// Send posts msg and returns the id of the created message.
	Send(ctx context.Context, msg *Message) (string, error)
	Edit(ctx context.Context, id string, msg *Message) error
}

type noopNotifier struct{}

func (n *noopNotifier) Send(_ context.Context, _ *Message) (string, error) { return "", nil }
func (n *noopNotifier) Edit(_ context.Context, _ string, _ *Message) error  { return nil }

// NewNotifierProvider returns a Discord webhook notifier, or one that drops
// every message when no webhook is configured.
func NewNotifierProvider(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) Notifier {
	if conf.Notifier.WebhookURL == "" {
		logger.Infof(providers.TypeApp, "Notifier disabled: no webhook configured")
		return &noopNotifier{}
	}
	return NewDiscordWebhook(conf.Notifier, metrics)
}
