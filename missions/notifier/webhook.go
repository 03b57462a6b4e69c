// Package notifier provides NotificationSink implementations. The webhook
// sink posts engine events to a Discord webhook for ops visibility; it is
// fire-and-forget, the engine never waits on delivery.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
)

const deliveryTimeout = 10 * time.Second

type WebhookSink struct {
	client webhook.Client
}

func NewWebhookSink(webhookURL string) (*WebhookSink, error) {
	client, err := webhook.NewWithURL(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook client: %w", err)
	}
	return &WebhookSink{client: client}, nil
}

func (s *WebhookSink) MissionsRefreshed(playerID string) {
	go s.send(discord.NewWebhookMessageCreateBuilder().
		SetContentf("Daily missions refreshed for player `%s`", playerID).
		Build())
}

func (s *WebhookSink) MissionCompleted(playerID string, missionTitle string) {
	embed := discord.NewEmbedBuilder().
		SetTitle("Mission Completed").
		SetDescriptionf("Player `%s` completed **%s**", playerID, missionTitle).
		SetColor(0x57F287).
		Build()
	go s.send(discord.NewWebhookMessageCreateBuilder().
		SetEmbeds(embed).
		Build())
}

func (s *WebhookSink) send(message discord.WebhookMessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if _, err := s.client.CreateMessage(message, rest.WithCtx(ctx)); err != nil {
		slog.Warn("Webhook delivery failed",
			slog.String("type", "engine"),
			slog.Any("error", err))
	}
}

func (s *WebhookSink) Close(ctx context.Context) {
	s.client.Close(ctx)
}
