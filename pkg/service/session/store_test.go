package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/service/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	store := session.New()

	s := store.GetOrCreate(ctx, "session_a")
	gt.Value(t, s.ID).Equal(types.SessionID("session_a"))
	gt.Value(t, s.Attributes).Equal(model.DefaultAttributes())
	gt.Number(t, store.Len()).Equal(1)

	store.GetOrCreate(ctx, "session_a")
	gt.Number(t, store.Len()).Equal(1)
}

func TestSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	store := session.New()

	s := store.GetOrCreate(ctx, "session_a")
	s.Attributes.CustomerName = "Alex"

	gt.Value(t, store.GetOrCreate(ctx, "session_a").Attributes.CustomerName).Equal("")
}

func TestMergeAttributesNeverErases(t *testing.T) {
	ctx := context.Background()
	store := session.New()

	_, err := store.MergeAttributes(ctx, "session_a", model.Attributes{
		Category:    types.CategoryCleanliness,
		Location:    types.LocationEntrance,
		ContactInfo: "alex@example.com",
	})
	gt.NoError(t, err).Required()

	merged, err := store.MergeAttributes(ctx, "session_a", model.DefaultAttributes())
	gt.NoError(t, err).Required()
	gt.Value(t, merged.Category).Equal(types.CategoryCleanliness)
	gt.Value(t, merged.Location).Equal(types.LocationEntrance)
	gt.Value(t, merged.ContactInfo).Equal("alex@example.com")
}

func TestAppendTrimsHistory(t *testing.T) {
	ctx := context.Background()
	store := session.New(session.WithMaxMessages(2))

	for i := 0; i < 4; i++ {
		gt.NoError(t, store.Append(ctx, "session_a", model.Message{
			Role:    types.RoleUser,
			Content: fmt.Sprintf("msg-%d", i),
		})).Required()
	}

	s := store.GetOrCreate(ctx, "session_a")
	gt.Array(t, s.Messages).Length(2)
	gt.Value(t, s.Messages[0].Content).Equal("msg-2")
	gt.Value(t, s.Messages[1].Content).Equal("msg-3")
}

func TestDoSerializesSameSession(t *testing.T) {
	ctx := context.Background()
	store := session.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gt.NoError(t, store.Do(ctx, "session_a", func(s *model.Session) error {
				turns := s.Turns
				time.Sleep(time.Microsecond)
				s.Turns = turns + 1
				return nil
			}))
		}()
	}
	wg.Wait()

	gt.Number(t, store.GetOrCreate(ctx, "session_a").Turns).Equal(50)
}

func TestDoKeepsChangesOnError(t *testing.T) {
	ctx := context.Background()
	store := session.New()

	err := store.Do(ctx, "session_a", func(s *model.Session) error {
		s.Attributes.CustomerName = "Alex"
		return fmt.Errorf("downstream failed")
	})
	gt.Error(t, err)
	gt.Value(t, store.GetOrCreate(ctx, "session_a").Attributes.CustomerName).Equal("Alex")
}

func TestDoHonoursCancellation(t *testing.T) {
	store := session.New()
	held := make(chan struct{})
	releaseHeld := make(chan struct{})

	go func() {
		_ = store.Do(context.Background(), "session_a", func(s *model.Session) error {
			close(held)
			<-releaseHeld
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := store.Do(ctx, "session_a", func(s *model.Session) error { return nil })
	gt.Error(t, err).Is(context.DeadlineExceeded)

	close(releaseHeld)
}

func TestEvict(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := session.New(session.WithClock(clock.Now))

	store.GetOrCreate(ctx, "session_old")
	clock.Advance(time.Hour)
	store.GetOrCreate(ctx, "session_new")

	evicted := store.Evict(ctx, clock.Now().Add(-30*time.Minute))
	gt.Number(t, evicted).Equal(1)
	gt.Number(t, store.Len()).Equal(1)

	gt.Value(t, store.GetOrCreate(ctx, "session_old").Turns).Equal(0)
	gt.Number(t, store.Len()).Equal(2)
}

func TestEvictSkipsBusySessions(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := session.New(session.WithClock(clock.Now))

	held := make(chan struct{})
	releaseHeld := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.Do(ctx, "session_busy", func(s *model.Session) error {
			close(held)
			<-releaseHeld
			return nil
		})
	}()
	<-held

	gt.Number(t, store.Evict(ctx, clock.Now().Add(time.Hour))).Equal(0)
	close(releaseHeld)
	<-done

	gt.Number(t, store.Evict(ctx, clock.Now().Add(time.Hour))).Equal(1)
}
