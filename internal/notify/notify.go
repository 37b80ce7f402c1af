// Package notify announces posting outcomes on Slack. Notification is an
// independent best-effort side effect; failures are reported to the caller
// for logging only.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/config"
)

// poster is the slice of the Slack API the notifier uses.
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier sends posting announcements to a fixed channel.
type Notifier struct {
	cfg    config.SlackConfig
	client poster
	logger *zap.Logger
}

// NewNotifier creates a Slack notifier. A disabled config yields a
// notifier whose sends are no-ops.
func NewNotifier(cfg config.SlackConfig, logger *zap.Logger) *Notifier {
	n := &Notifier{
		cfg:    cfg,
		logger: logger.Named("notify"),
	}
	if cfg.Enabled {
		n.client = slack.New(cfg.Token)
	}
	return n
}

// PostedMessage formats the success announcement for a posted job.
func PostedMessage(job schemas.JobRecord) string {
	return fmt.Sprintf(
		":white_check_mark: Job posted: *%s* at *%s* (%s, %s) by %s",
		job.JobTitle, job.CompanyName, job.Location, job.JobFunction, job.PostedBy)
}

// FailedMessage formats the failure announcement for a job that did not
// post.
func FailedMessage(job schemas.JobRecord) string {
	return fmt.Sprintf(
		":x: Job posting FAILED: *%s* at *%s*. Check the run log and failure screenshot.",
		job.JobTitle, job.CompanyName)
}

// Send posts the message to the configured channel.
func (n *Notifier) Send(ctx context.Context, message string) error {
	if !n.cfg.Enabled || n.client == nil {
		n.logger.Debug("Slack notifications disabled, skipping.")
		return nil
	}

	_, _, err := n.client.PostMessageContext(ctx, n.cfg.Channel,
		slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("could not post to %s: %w", n.cfg.Channel, err)
	}

	n.logger.Info("Notification sent.", zap.String("channel", n.cfg.Channel))
	return nil
}
