package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/repository/firestore"
	"github.com/junglesafari/safaridesk/pkg/repository/memory"
	"github.com/junglesafari/safaridesk/pkg/repository/mongodb"
	"github.com/junglesafari/safaridesk/pkg/repository/postgres"
)

func newComplaint(sessionID types.SessionID, category types.Category) *model.Complaint {
	return model.NewComplaint(sessionID, "it happened yesterday", model.Attributes{
		Category:     category,
		Location:     types.LocationEntrance,
		Severity:     types.SeverityMedium,
		CustomerName: "Alex",
		ContactInfo:  "alex@example.com",
		VisitDate:    "yesterday",
	})
}

func runComplaintRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		before := time.Now().Add(-time.Second)
		created, err := repo.Complaint().Create(ctx, newComplaint("session_create", types.CategoryCleanliness))
		gt.NoError(t, err).Required()

		gt.String(t, created.ID.String()).NotEqual("")
		gt.Bool(t, created.Timestamp.After(before)).True()
		gt.Value(t, created.Status).Equal(types.ComplaintStatusNew)

		got, err := repo.Complaint().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.Message).Equal("it happened yesterday")
		gt.Value(t, got.CustomerName).Equal("Alex")
		gt.Value(t, got.ContactInfo).Equal("alex@example.com")
		gt.Value(t, got.VisitDate).Equal("yesterday")
		gt.Value(t, got.IssueCategory).Equal(types.CategoryCleanliness)
		gt.Value(t, got.Severity).Equal(types.SeverityMedium)
		gt.Value(t, got.LocationInPark).Equal(types.LocationEntrance)
		gt.Value(t, got.SessionID).Equal(types.SessionID("session_create"))
		gt.Bool(t, got.Timestamp.Equal(created.Timestamp)).True()
		gt.Value(t, got.ResolutionDate).Nil()
	})

	t.Run("Create does not modify input", func(t *testing.T) {
		repo := newRepo(t)
		input := newComplaint("session_input", types.CategoryFacilities)

		_, err := repo.Complaint().Create(context.Background(), input)
		gt.NoError(t, err).Required()
		gt.Value(t, input.ID).Equal(types.ComplaintID(""))
		gt.Bool(t, input.Timestamp.IsZero()).True()
	})

	t.Run("Get returns ErrNotFound for unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Complaint().Get(context.Background(), "000000000000000000000000")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []types.ComplaintID
		for i := 0; i < 3; i++ {
			created, err := repo.Complaint().Create(ctx, newComplaint(types.SessionID(fmt.Sprintf("session_%d", i)), types.CategoryCleanliness))
			gt.NoError(t, err).Required()
			ids = append(ids, created.ID)
			time.Sleep(5 * time.Millisecond)
		}

		list, err := repo.Complaint().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(3)
		gt.Value(t, list[0].ID).Equal(ids[2])
		gt.Value(t, list[1].ID).Equal(ids[1])
		gt.Value(t, list[2].ID).Equal(ids[0])
	})

	t.Run("List on empty repository", func(t *testing.T) {
		repo := newRepo(t)
		list, err := repo.Complaint().List(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})

	t.Run("List filters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Complaint().Create(ctx, newComplaint("session_a", types.CategoryCleanliness))
		gt.NoError(t, err).Required()
		time.Sleep(5 * time.Millisecond)
		_, err = repo.Complaint().Create(ctx, newComplaint("session_b", types.CategoryWaitTimes))
		gt.NoError(t, err).Required()
		time.Sleep(5 * time.Millisecond)
		_, err = repo.Complaint().Create(ctx, newComplaint("session_c", types.CategoryFoodServices))
		gt.NoError(t, err).Required()

		first.Status = types.ComplaintStatusResolved
		_, err = repo.Complaint().Update(ctx, first)
		gt.NoError(t, err).Required()

		resolved, err := repo.Complaint().List(ctx, interfaces.WithStatus(types.ComplaintStatusResolved))
		gt.NoError(t, err).Required()
		gt.Array(t, resolved).Length(1)
		gt.Value(t, resolved[0].ID).Equal(first.ID)

		bySession, err := repo.Complaint().List(ctx, interfaces.WithSessionID("session_b"))
		gt.NoError(t, err).Required()
		gt.Array(t, bySession).Length(1)
		gt.Value(t, bySession[0].IssueCategory).Equal(types.CategoryWaitTimes)

		limited, err := repo.Complaint().List(ctx, interfaces.WithLimit(2))
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(2)
		gt.Value(t, limited[0].IssueCategory).Equal(types.CategoryFoodServices)
	})

	t.Run("Update keeps timestamp and stores moderation fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Complaint().Create(ctx, newComplaint("session_update", types.CategoryCleanliness))
		gt.NoError(t, err).Required()

		resolvedAt := time.Now().UTC().Truncate(time.Millisecond)
		change := created.Copy()
		change.Status = types.ComplaintStatusResolved
		change.AssignedTo = "kim"
		change.Resolution = "restrooms cleaned"
		change.ResolutionDate = &resolvedAt
		change.SlackChannelID = "C0123"
		change.SlackMessageTS = "1700000000.000100"
		change.Timestamp = time.Unix(0, 0)

		updated, err := repo.Complaint().Update(ctx, change)
		gt.NoError(t, err).Required()
		gt.Bool(t, updated.Timestamp.Equal(created.Timestamp)).True()

		got, err := repo.Complaint().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ComplaintStatusResolved)
		gt.Value(t, got.AssignedTo).Equal("kim")
		gt.Value(t, got.Resolution).Equal("restrooms cleaned")
		gt.Value(t, got.ResolutionDate).NotNil().Required()
		gt.Bool(t, got.ResolutionDate.Equal(resolvedAt)).True()
		gt.Value(t, got.SlackChannelID).Equal("")
		gt.Value(t, got.SlackMessageTS).Equal("")
		gt.Bool(t, got.Timestamp.Equal(created.Timestamp)).True()
	})

	t.Run("SetSlackMessage writes only the Slack reference", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Complaint().Create(ctx, newComplaint("session_slack", types.CategoryCleanliness))
		gt.NoError(t, err).Required()

		// a moderation save based on a read taken before the announcement
		stale := created.Copy()

		got, err := repo.Complaint().SetSlackMessage(ctx, created.ID, "C0123", "1700000000.000100")
		gt.NoError(t, err).Required()
		gt.Value(t, got.SlackChannelID).Equal("C0123")
		gt.Value(t, got.SlackMessageTS).Equal("1700000000.000100")
		gt.Value(t, got.Status).Equal(types.ComplaintStatusNew)

		stale.Status = types.ComplaintStatusInProgress
		stale.AssignedTo = "kim"
		_, err = repo.Complaint().Update(ctx, stale)
		gt.NoError(t, err).Required()

		got, err = repo.Complaint().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ComplaintStatusInProgress)
		gt.Value(t, got.AssignedTo).Equal("kim")
		gt.Value(t, got.SlackChannelID).Equal("C0123")
		gt.Value(t, got.SlackMessageTS).Equal("1700000000.000100")
		gt.Bool(t, got.Timestamp.Equal(created.Timestamp)).True()
	})

	t.Run("SetSlackMessage returns ErrNotFound for unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Complaint().SetSlackMessage(context.Background(), "000000000000000000000000", "C0123", "1")
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Update returns ErrNotFound for unknown id", func(t *testing.T) {
		repo := newRepo(t)
		c := newComplaint("session_missing", types.CategoryOther)
		c.ID = "000000000000000000000000"

		_, err := repo.Complaint().Update(context.Background(), c)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 10
		var mu sync.Mutex
		seen := map[types.ComplaintID]bool{}
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				created, err := repo.Complaint().Create(ctx, newComplaint(types.SessionID(fmt.Sprintf("session_%d", i)), types.CategoryOther))
				gt.NoError(t, err)
				if created == nil {
					return
				}
				mu.Lock()
				seen[created.ID] = true
				mu.Unlock()
			}(i)
		}
		wg.Wait()
		gt.Number(t, len(seen)).Equal(n)
	})
}

func testPrefix() string {
	return fmt.Sprintf("test_%d", time.Now().UnixNano())
}

func TestMemoryComplaintRepository(t *testing.T) {
	runComplaintRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreComplaintRepository(t *testing.T) {
	runComplaintRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		t.Helper()

		projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
		if projectID == "" {
			t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
		}

		repo, err := firestore.New(context.Background(), projectID, os.Getenv("TEST_FIRESTORE_DATABASE_ID"),
			firestore.WithCollectionPrefix(testPrefix()))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, repo.Close())
		})
		return repo
	})
}

func TestMongoDBComplaintRepository(t *testing.T) {
	runComplaintRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		t.Helper()

		uri := os.Getenv("TEST_MONGODB_URI")
		if uri == "" {
			t.Skip("TEST_MONGODB_URI not set")
		}

		repo, err := mongodb.New(context.Background(), uri, "safaridesk_test",
			mongodb.WithCollectionPrefix(testPrefix()))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, repo.Close())
		})
		return repo
	})
}

func TestPostgresComplaintRepository(t *testing.T) {
	runComplaintRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		t.Helper()

		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			t.Skip("TEST_POSTGRES_DSN not set")
		}

		repo, err := postgres.New(dsn, postgres.WithTablePrefix(testPrefix()))
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, repo.Close())
		})
		return repo
	})
}
