package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service provides the Slack API operations used to announce and moderate complaints
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// UpdateMessage updates an existing Block Kit message identified by channel and timestamp.
	UpdateMessage(ctx context.Context, channelID string, timestamp string, blocks []slack.Block, text string) error

	// GetUserName returns the display name of a user, falling back to the account name (with caching)
	GetUserName(ctx context.Context, userID string) (string, error)
}
