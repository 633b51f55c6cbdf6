package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/repository/memory"
	"github.com/junglesafari/safaridesk/pkg/usecase"
)

func ptr[T any](v T) *T {
	return &v
}

func seedComplaint(t *testing.T, repo *memory.Memory, sessionID types.SessionID, category types.Category, severity types.Severity) *model.Complaint {
	t.Helper()
	created, err := repo.Complaint().Create(context.Background(), &model.Complaint{
		Message:        "seeded complaint",
		CustomerName:   "Alex",
		ContactInfo:    "alex@example.com",
		VisitDate:      "yesterday",
		IssueCategory:  category,
		Severity:       severity,
		LocationInPark: types.LocationEntrance,
		Status:         types.ComplaintStatusNew,
		SessionID:      sessionID,
	})
	gt.NoError(t, err).Required()
	return created
}

func TestComplaintUseCase_ListAndGet(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	older := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)
	time.Sleep(2 * time.Millisecond)
	newer := seedComplaint(t, repo, "s2", types.CategoryWaitTimes, types.SeverityLow)

	t.Run("list returns newest first", func(t *testing.T) {
		complaints, err := uc.Complaint.ListComplaints(ctx, "")
		gt.NoError(t, err).Required()
		gt.Array(t, complaints).Length(2).Required()
		gt.Value(t, complaints[0].ID).Equal(newer.ID)
		gt.Value(t, complaints[1].ID).Equal(older.ID)
	})

	t.Run("list filters by status", func(t *testing.T) {
		_, err := uc.Complaint.UpdateComplaint(ctx, older.ID, model.ComplaintUpdate{
			Status: ptr(types.ComplaintStatusResolved),
		})
		gt.NoError(t, err).Required()

		resolved, err := uc.Complaint.ListComplaints(ctx, types.ComplaintStatusResolved)
		gt.NoError(t, err).Required()
		gt.Array(t, resolved).Length(1).Required()
		gt.Value(t, resolved[0].ID).Equal(older.ID)
	})

	t.Run("list rejects unknown status", func(t *testing.T) {
		_, err := uc.Complaint.ListComplaints(ctx, "archived")
		gt.Error(t, err).Is(usecase.ErrInvalidStatus)
	})

	t.Run("get existing complaint", func(t *testing.T) {
		got, err := uc.Complaint.GetComplaint(ctx, newer.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.IssueCategory).Equal(types.CategoryWaitTimes)
	})

	t.Run("get unknown complaint", func(t *testing.T) {
		_, err := uc.Complaint.GetComplaint(ctx, "missing")
		gt.Error(t, err).Is(usecase.ErrComplaintNotFound)
	})
}

func TestComplaintUseCase_UpdateComplaint(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("update moderation fields", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithClock(clock))
		ctx := context.Background()
		c := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)

		updated, err := uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{
			Status:     ptr(types.ComplaintStatusInProgress),
			AssignedTo: ptr("  Jordan  "),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.ComplaintStatusInProgress)
		gt.Value(t, updated.AssignedTo).Equal("Jordan")
		gt.Value(t, updated.ResolutionDate).Nil()
		gt.Value(t, updated.Timestamp).Equal(c.Timestamp)
	})

	t.Run("resolving stamps resolution date once", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithClock(clock))
		ctx := context.Background()
		c := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)

		resolved, err := uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{
			Status:     ptr(types.ComplaintStatusResolved),
			Resolution: ptr("Restrooms cleaned"),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, resolved.ResolutionDate).NotNil().Required()
		gt.Value(t, resolved.ResolutionDate.Equal(now)).Equal(true)
		gt.Value(t, resolved.Resolution).Equal("Restrooms cleaned")

		now2 := now.Add(time.Hour)
		uc2 := usecase.New(repo, usecase.WithClock(func() time.Time { return now2 }))
		closed, err := uc2.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{
			Status: ptr(types.ComplaintStatusClosed),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, closed.ResolutionDate.Equal(now)).Equal(true)
		gt.Value(t, closed.Resolution).Equal("Restrooms cleaned")
	})

	t.Run("blank fields are ignored", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()
		c := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)

		_, err := uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{AssignedTo: ptr("Jordan")})
		gt.NoError(t, err).Required()

		updated, err := uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{
			AssignedTo: ptr(""),
			Resolution: ptr("   "),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AssignedTo).Equal("Jordan")
		gt.Value(t, updated.Status).Equal(types.ComplaintStatusNew)
	})

	t.Run("invalid status is rejected without side effects", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo)
		ctx := context.Background()
		c := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)

		_, err := uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{
			Status:     ptr(types.ComplaintStatus("archived")),
			AssignedTo: ptr("Jordan"),
		})
		gt.Error(t, err).Is(usecase.ErrInvalidStatus)

		got, err := repo.Complaint().Get(ctx, c.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.AssignedTo).Equal("")
	})

	t.Run("unknown complaint", func(t *testing.T) {
		uc := usecase.New(memory.New())

		_, err := uc.Complaint.UpdateComplaint(context.Background(), "missing", model.ComplaintUpdate{
			Status: ptr(types.ComplaintStatusClosed),
		})
		gt.Error(t, err).Is(usecase.ErrComplaintNotFound)
	})

	t.Run("refreshes the Slack message", func(t *testing.T) {
		repo := memory.New()
		mock := &mockSlackService{}
		uc := usecase.New(repo, usecase.WithSlack(mock, "C123"))
		ctx := context.Background()

		c := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)
		_, err := repo.Complaint().SetSlackMessage(ctx, c.ID, "C123", "1700000000.000001")
		gt.NoError(t, err).Required()

		_, err = uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{
			Status: ptr(types.ComplaintStatusInProgress),
		})
		gt.NoError(t, err).Required()

		updated := mock.updated()
		gt.Array(t, updated).Length(1).Required()
		gt.Value(t, updated[0].ChannelID).Equal("C123")
		gt.Value(t, updated[0].Timestamp).Equal("1700000000.000001")
	})
}

func TestComplaintUseCase_Stats(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)
	seedComplaint(t, repo, "s2", types.CategoryCleanliness, types.SeverityHigh)
	c := seedComplaint(t, repo, "s3", types.CategoryWaitTimes, types.SeverityHigh)
	_, err := uc.Complaint.UpdateComplaint(ctx, c.ID, model.ComplaintUpdate{Status: ptr(types.ComplaintStatusClosed)})
	gt.NoError(t, err).Required()

	stats, err := uc.Complaint.Stats(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, stats.Total).Equal(3)
	gt.Number(t, stats.ByCategory[types.CategoryCleanliness]).Equal(2)
	gt.Number(t, stats.ByCategory[types.CategoryWaitTimes]).Equal(1)
	gt.Number(t, stats.BySeverity[types.SeverityHigh]).Equal(2)
	gt.Number(t, stats.ByStatus[types.ComplaintStatusNew]).Equal(2)
	gt.Number(t, stats.ByStatus[types.ComplaintStatusClosed]).Equal(1)
	gt.Number(t, stats.ByLocation[types.LocationEntrance]).Equal(3)
}

func TestComplaintUseCase_HandleSlackInteraction(t *testing.T) {
	setup := func(t *testing.T, mock *mockSlackService) (*usecase.UseCases, *memory.Memory, *model.Complaint) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithSlack(mock, "C123"))
		c := seedComplaint(t, repo, "s1", types.CategoryCleanliness, types.SeverityMedium)
		return uc, repo, c
	}

	t.Run("assign uses the Slack display name", func(t *testing.T) {
		uc, repo, c := setup(t, &mockSlackService{})
		ctx := context.Background()

		err := uc.Complaint.HandleSlackInteraction(ctx, c.ID, "U001", usecase.SlackActionIDAssign)
		gt.NoError(t, err).Required()

		got, err := repo.Complaint().Get(ctx, c.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.AssignedTo).Equal("Name of U001")
	})

	t.Run("assign falls back to the user ID", func(t *testing.T) {
		mock := &mockSlackService{
			getUserNameFn: func(ctx context.Context, userID string) (string, error) {
				return "", errors.New("user_not_found")
			},
		}
		uc, repo, c := setup(t, mock)
		ctx := context.Background()

		err := uc.Complaint.HandleSlackInteraction(ctx, c.ID, "U002", usecase.SlackActionIDAssign)
		gt.NoError(t, err).Required()

		got, err := repo.Complaint().Get(ctx, c.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.AssignedTo).Equal("U002")
	})

	t.Run("status buttons", func(t *testing.T) {
		tests := []struct {
			actionID string
			want     types.ComplaintStatus
		}{
			{actionID: usecase.SlackActionIDInProgress, want: types.ComplaintStatusInProgress},
			{actionID: usecase.SlackActionIDResolve, want: types.ComplaintStatusResolved},
			{actionID: usecase.SlackActionIDClose, want: types.ComplaintStatusClosed},
		}
		for _, tt := range tests {
			t.Run(tt.actionID, func(t *testing.T) {
				uc, repo, c := setup(t, &mockSlackService{})
				ctx := context.Background()

				gt.NoError(t, uc.Complaint.HandleSlackInteraction(ctx, c.ID, "U001", tt.actionID)).Required()

				got, err := repo.Complaint().Get(ctx, c.ID)
				gt.NoError(t, err).Required()
				gt.Value(t, got.Status).Equal(tt.want)
			})
		}
	})

	t.Run("unknown action is ignored", func(t *testing.T) {
		uc, repo, c := setup(t, &mockSlackService{})
		ctx := context.Background()

		gt.NoError(t, uc.Complaint.HandleSlackInteraction(ctx, c.ID, "U001", "sd_unknown")).Required()

		got, err := repo.Complaint().Get(ctx, c.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ComplaintStatusNew)
	})

	t.Run("unknown complaint", func(t *testing.T) {
		uc, _, _ := setup(t, &mockSlackService{})

		err := uc.Complaint.HandleSlackInteraction(context.Background(), "missing", "U001", usecase.SlackActionIDClose)
		gt.Error(t, err).Is(usecase.ErrComplaintNotFound)
	})
}
