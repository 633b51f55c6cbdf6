package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/service/slack"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

type ComplaintUseCase struct {
	repo         interfaces.Repository
	notifier     *ComplaintNotifier
	slackService slack.Service
	now          func() time.Time
}

func NewComplaintUseCase(repo interfaces.Repository, notifier *ComplaintNotifier, slackService slack.Service, now func() time.Time) *ComplaintUseCase {
	if now == nil {
		now = time.Now
	}
	return &ComplaintUseCase{
		repo:         repo,
		notifier:     notifier,
		slackService: slackService,
		now:          now,
	}
}

// ComplaintStats counts complaints per attribute value
type ComplaintStats struct {
	Total      int
	ByCategory map[types.Category]int
	BySeverity map[types.Severity]int
	ByStatus   map[types.ComplaintStatus]int
	ByLocation map[types.Location]int
}

// ListComplaints returns complaints newest first. An empty status lists all of them.
func (uc *ComplaintUseCase) ListComplaints(ctx context.Context, status types.ComplaintStatus) ([]*model.Complaint, error) {
	var opts []interfaces.ListComplaintOption
	if status != "" {
		if !status.IsValid() {
			return nil, goerr.Wrap(ErrInvalidStatus, "invalid status filter", goerr.V(StatusKey, status))
		}
		opts = append(opts, interfaces.WithStatus(status))
	}

	complaints, err := uc.repo.Complaint().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list complaints")
	}
	return complaints, nil
}

func (uc *ComplaintUseCase) GetComplaint(ctx context.Context, id types.ComplaintID) (*model.Complaint, error) {
	complaint, err := uc.repo.Complaint().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrComplaintNotFound, "complaint not found", goerr.V(ComplaintIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get complaint", goerr.V(ComplaintIDKey, id))
	}
	return complaint, nil
}

// UpdateComplaint applies moderation changes. Only provided, non-blank fields change;
// an update with nothing to change returns the stored complaint untouched.
func (uc *ComplaintUseCase) UpdateComplaint(ctx context.Context, id types.ComplaintID, update model.ComplaintUpdate) (*model.Complaint, error) {
	if update.Status != nil && *update.Status != "" && !update.Status.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStatus, "invalid status",
			goerr.V(ComplaintIDKey, id),
			goerr.V(StatusKey, *update.Status))
	}

	existing, err := uc.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return existing, nil
	}

	existing.Apply(update, uc.now().UTC())

	updated, err := uc.repo.Complaint().Update(ctx, existing)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrComplaintNotFound, "complaint disappeared during update", goerr.V(ComplaintIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to update complaint", goerr.V(ComplaintIDKey, id))
	}

	logging.From(ctx).Info("complaint updated",
		"complaint_id", updated.ID,
		"status", updated.Status,
		"assigned_to", updated.AssignedTo,
	)

	uc.notifier.Refresh(ctx, updated)

	return updated, nil
}

// Stats aggregates all stored complaints
func (uc *ComplaintUseCase) Stats(ctx context.Context) (*ComplaintStats, error) {
	complaints, err := uc.repo.Complaint().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list complaints for stats")
	}

	stats := &ComplaintStats{
		Total:      len(complaints),
		ByCategory: make(map[types.Category]int),
		BySeverity: make(map[types.Severity]int),
		ByStatus:   make(map[types.ComplaintStatus]int),
		ByLocation: make(map[types.Location]int),
	}
	for _, c := range complaints {
		stats.ByCategory[c.IssueCategory]++
		stats.BySeverity[c.Severity]++
		stats.ByStatus[c.Status]++
		stats.ByLocation[c.LocationInPark]++
	}
	return stats, nil
}

// HandleSlackInteraction applies a moderation button press from Slack.
// Unknown action IDs are ignored.
func (uc *ComplaintUseCase) HandleSlackInteraction(ctx context.Context, id types.ComplaintID, userID string, actionID string) error {
	var update model.ComplaintUpdate

	switch actionID {
	case SlackActionIDAssign:
		name := userID
		if uc.slackService != nil {
			if resolved, err := uc.slackService.GetUserName(ctx, userID); err == nil && resolved != "" {
				name = resolved
			} else if err != nil {
				logging.From(ctx).Warn("failed to resolve Slack user name", "user_id", userID, "error", err.Error())
			}
		}
		update.AssignedTo = &name

	case SlackActionIDInProgress:
		update.Status = statusPtr(types.ComplaintStatusInProgress)

	case SlackActionIDResolve:
		update.Status = statusPtr(types.ComplaintStatusResolved)

	case SlackActionIDClose:
		update.Status = statusPtr(types.ComplaintStatusClosed)

	default:
		logging.From(ctx).Debug("ignoring unknown Slack action", "action_id", actionID)
		return nil
	}

	if _, err := uc.UpdateComplaint(ctx, id, update); err != nil {
		return goerr.Wrap(err, "failed to update complaint from Slack interaction",
			goerr.V(ComplaintIDKey, id),
			goerr.V("action_id", actionID))
	}
	return nil
}

func statusPtr(s types.ComplaintStatus) *types.ComplaintStatus {
	return &s
}
