package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	goslack "github.com/slack-go/slack"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/service/slack"
	"github.com/junglesafari/safaridesk/pkg/utils/errutil"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// Slack action IDs for complaint moderation buttons
const (
	SlackActionIDAssign     = "sd_assign"
	SlackActionIDInProgress = "sd_in_progress"
	SlackActionIDResolve    = "sd_resolve"
	SlackActionIDClose      = "sd_close"
	slackActionBlockID      = "sd_complaint_actions"
)

// ComplaintNotifier posts complaint announcements to Slack and keeps them in sync with moderation
type ComplaintNotifier struct {
	repo         interfaces.Repository
	slackService slack.Service
	channelID    string
	baseURL      string
}

func NewComplaintNotifier(repo interfaces.Repository, svc slack.Service, channelID, baseURL string) *ComplaintNotifier {
	return &ComplaintNotifier{
		repo:         repo,
		slackService: svc,
		channelID:    channelID,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Enabled reports whether announcements are configured
func (n *ComplaintNotifier) Enabled() bool {
	return n != nil && n.slackService != nil && n.channelID != ""
}

// Announce posts a new complaint and records the message reference on the stored complaint.
func (n *ComplaintNotifier) Announce(ctx context.Context, complaint *model.Complaint) error {
	if !n.Enabled() {
		return nil
	}

	blocks := buildComplaintMessageBlocks(complaint, n.complaintURL(complaint.ID))
	fallback := fmt.Sprintf("New complaint: %s (%s)", complaint.IssueCategory, complaint.Severity)
	ts, err := n.slackService.PostMessage(ctx, n.channelID, blocks, fallback)
	if err != nil {
		return goerr.Wrap(err, "failed to post complaint to Slack", goerr.V(ComplaintIDKey, complaint.ID))
	}

	stored, err := n.repo.Complaint().SetSlackMessage(ctx, complaint.ID, n.channelID, ts)
	if err != nil {
		return goerr.Wrap(err, "failed to save Slack message reference", goerr.V(ComplaintIDKey, complaint.ID))
	}

	// Moderation may have landed while the message was being posted.
	if moderationChanged(complaint, stored) {
		n.Refresh(ctx, stored)
	}

	logging.From(ctx).Info("complaint announced to Slack",
		"complaint_id", complaint.ID,
		"channel_id", n.channelID,
		"ts", ts,
	)
	return nil
}

// Refresh re-renders the Slack message of a complaint (best-effort).
func (n *ComplaintNotifier) Refresh(ctx context.Context, complaint *model.Complaint) {
	if n == nil || n.slackService == nil || complaint.SlackMessageTS == "" {
		return
	}

	blocks := buildComplaintMessageBlocks(complaint, n.complaintURL(complaint.ID))
	fallback := fmt.Sprintf("Complaint updated: %s (%s)", complaint.IssueCategory, complaint.Status)
	if err := n.slackService.UpdateMessage(ctx, complaint.SlackChannelID, complaint.SlackMessageTS, blocks, fallback); err != nil {
		errutil.Handle(ctx, err, "failed to update Slack message for complaint")
	}
}

func moderationChanged(posted, stored *model.Complaint) bool {
	return posted.Status != stored.Status ||
		posted.AssignedTo != stored.AssignedTo ||
		posted.Resolution != stored.Resolution
}

func (n *ComplaintNotifier) complaintURL(id types.ComplaintID) string {
	if n.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/complaints/%s", n.baseURL, id)
}

// buildComplaintMessageBlocks constructs Block Kit blocks for a complaint notification message.
func buildComplaintMessageBlocks(c *model.Complaint, complaintURL string) []goslack.Block {
	blocks := []goslack.Block{
		goslack.NewHeaderBlock(
			goslack.NewTextBlockObject(goslack.PlainTextType,
				fmt.Sprintf("Complaint: %s %s", c.Severity.Emoji(), c.IssueCategory), true, false),
		),
	}

	if c.Message != "" {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, ">"+slack.TruncateText(c.Message), false, false),
			nil, nil,
		))
	}

	fields := []*goslack.TextBlockObject{
		goslack.NewTextBlockObject(goslack.MarkdownType, "*Severity*\n"+c.Severity.String(), false, false),
		goslack.NewTextBlockObject(goslack.MarkdownType, "*Location*\n"+c.LocationInPark.String(), false, false),
	}
	if c.VisitDate != "" {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType, "*Visit date*\n"+c.VisitDate, false, false))
	}
	if c.Resolution != "" {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType, "*Resolution*\n"+slack.TruncateText(c.Resolution), false, false))
	}
	blocks = append(blocks, goslack.NewSectionBlock(nil, fields, nil))

	// Context: assignee, status, and link. Visitor contact details stay out of Slack.
	contextParts := []string{}
	if c.AssignedTo != "" {
		contextParts = append(contextParts, "Assigned to "+c.AssignedTo)
	} else {
		contextParts = append(contextParts, "No Assign")
	}
	contextParts = append(contextParts, fmt.Sprintf("Status: %s %s", c.Status.Emoji(), c.Status))
	if complaintURL != "" {
		contextParts = append(contextParts, fmt.Sprintf(":link: <%s|Link>", complaintURL))
	}
	blocks = append(blocks, goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType, strings.Join(contextParts, "  |  "), false, false),
	))

	// Buttons are shown based on the current state
	buttonValue := c.ID.String()

	var buttons []goslack.BlockElement
	if c.AssignedTo == "" {
		buttons = append(buttons, goslack.NewButtonBlockElement(SlackActionIDAssign, buttonValue,
			goslack.NewTextBlockObject(goslack.PlainTextType, "Assign to me", true, false),
		))
	}
	if c.Status != types.ComplaintStatusInProgress && !c.Status.IsTerminal() {
		btn := goslack.NewButtonBlockElement(SlackActionIDInProgress, buttonValue,
			goslack.NewTextBlockObject(goslack.PlainTextType, "In Progress", true, false),
		)
		btn.Style = goslack.StylePrimary
		buttons = append(buttons, btn)
	}
	if !c.Status.IsTerminal() {
		buttons = append(buttons, goslack.NewButtonBlockElement(SlackActionIDResolve, buttonValue,
			goslack.NewTextBlockObject(goslack.PlainTextType, "Resolve", true, false),
		))
	}
	if c.Status != types.ComplaintStatusClosed {
		btn := goslack.NewButtonBlockElement(SlackActionIDClose, buttonValue,
			goslack.NewTextBlockObject(goslack.PlainTextType, "Close", true, false),
		)
		btn.Style = goslack.StyleDanger
		buttons = append(buttons, btn)
	}

	if len(buttons) > 0 {
		blocks = append(blocks, goslack.NewActionBlock(slackActionBlockID, buttons...))
	}

	return blocks
}

// ParseSlackActionValue extracts the complaint ID carried by a moderation button.
func ParseSlackActionValue(value string) (types.ComplaintID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", goerr.New("empty action value")
	}
	return types.ComplaintID(value), nil
}
