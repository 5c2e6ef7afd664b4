package notify

import (
	"context"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"

	"github.com/omarbz2001/MA-PCM/internal/telemetry"
)

// slackPoster is the subset of *slack.Client the manager needs,
// extracted so tests can inject a fake.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Manager routes harness events to Slack. Events are gated per type by
// the notifications.slack.events.* configuration keys; with no token
// and no webhook configured every call is a no-op.
type Manager struct {
	client    slackPoster
	webhook   *WebhookNotifier
	channelID string
}

// NewManager builds a Manager from the loaded configuration.
func NewManager() *Manager {
	m := &Manager{}
	m.initSlack()
	return m
}

func (m *Manager) initSlack() {
	if !viper.GetBool("notifications.slack.enabled") {
		return
	}

	m.channelID = viper.GetString("notifications.slack.channel")

	if botToken := os.Getenv("SLACK_BOT_USER_TOKEN"); botToken != "" {
		m.client = slack.New(botToken)
		return
	}

	if webhookURL := viper.GetString("notifications.slack.webhook_url"); webhookURL != "" {
		m.webhook = NewWebhookNotifier(webhookURL)
		return
	}

	slog.Warn("Slack notifications enabled but neither SLACK_BOT_USER_TOKEN nor webhook_url is set")
}

// Notify sends a message when the event type is enabled. Delivery
// problems are logged and counted, never returned.
func (m *Manager) Notify(ctx context.Context, eventType string, message string) {
	if m.client == nil && m.webhook == nil {
		return
	}
	if !viper.GetBool("notifications.slack.events." + eventType) {
		slog.Debug("Notification event disabled", "event", eventType)
		return
	}

	if m.client != nil {
		channelID := m.channelID
		if channelID == "" {
			channelID = "#benchmarks"
		}
		_, _, err := m.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(message, false))
		if err != nil {
			telemetry.TrackNotifyFailure()
			slog.Warn("Failed to send Slack notification", "event", eventType, "error", err)
		}
		return
	}

	if err := m.webhook.Send(ctx, message); err != nil {
		telemetry.TrackNotifyFailure()
		slog.Warn("Failed to send Slack webhook notification", "event", eventType, "error", err)
	}
}
