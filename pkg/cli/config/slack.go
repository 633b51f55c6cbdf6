package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/junglesafari/safaridesk/pkg/service/slack"
	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// Slack holds CLI flags for complaint announcements and moderation buttons
type Slack struct {
	botToken      string
	channelID     string
	signingSecret string
	baseURL       string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting complaints)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("SAFARIDESK_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel where new complaints are announced",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("SAFARIDESK_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for interaction webhook verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("SAFARIDESK_SLACK_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL linked from Slack messages (e.g., https://desk.example.com)",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("SAFARIDESK_BASE_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("base-url", x.baseURL),
	)
}

// IsConfigured reports whether complaints can be announced
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// IsWebhookConfigured checks if the interaction webhook is configured
func (x *Slack) IsWebhookConfigured() bool {
	return x.signingSecret != ""
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Configure returns use case options enabling Slack. Only the base URL is set when the
// bot token is not set.
func (x *Slack) Configure() ([]usecase.Option, error) {
	opts := []usecase.Option{usecase.WithBaseURL(x.baseURL)}

	if x.botToken == "" {
		if x.channelID != "" {
			logging.Default().Warn("--slack-channel-id is set without --slack-bot-token, announcements disabled")
		}
		return opts, nil
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrMissingFlag, "slack bot token needs a channel", goerr.V(FlagKey, "slack-channel-id"))
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	logging.Default().Info("Slack announcements enabled", "channel_id", x.channelID)

	return append(opts, usecase.WithSlack(svc, x.channelID)), nil
}
