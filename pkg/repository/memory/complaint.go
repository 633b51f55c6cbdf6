package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

type complaintRepository struct {
	mu         sync.RWMutex
	complaints map[types.ComplaintID]*model.Complaint
}

func newComplaintRepository() *complaintRepository {
	return &complaintRepository{
		complaints: make(map[types.ComplaintID]*model.Complaint),
	}
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := c.Copy()
	created.ID = types.NewComplaintID()
	created.Timestamp = time.Now().UTC()
	created.Status = created.Status.Normalize()

	r.complaints[created.ID] = created
	return created.Copy(), nil
}

func (r *complaintRepository) Get(ctx context.Context, id types.ComplaintID) (*model.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.complaints[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
	}

	return c.Copy(), nil
}

func (r *complaintRepository) List(ctx context.Context, opts ...interfaces.ListComplaintOption) ([]*model.Complaint, error) {
	cfg := interfaces.BuildListComplaintConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	complaints := make([]*model.Complaint, 0, len(r.complaints))
	for _, c := range r.complaints {
		if !cfg.Match(c) {
			continue
		}
		complaints = append(complaints, c.Copy())
	}

	sortNewestFirst(complaints)
	if limit := cfg.Limit(); limit > 0 && len(complaints) > limit {
		complaints = complaints[:limit]
	}
	return complaints, nil
}

func (r *complaintRepository) Update(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.complaints[c.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", c.ID))
	}

	updated := c.Copy()
	updated.Timestamp = existing.Timestamp
	updated.SlackChannelID = existing.SlackChannelID
	updated.SlackMessageTS = existing.SlackMessageTS

	r.complaints[updated.ID] = updated
	return updated.Copy(), nil
}

func (r *complaintRepository) SetSlackMessage(ctx context.Context, id types.ComplaintID, channelID, ts string) (*model.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.complaints[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
	}

	existing.SlackChannelID = channelID
	existing.SlackMessageTS = ts
	return existing.Copy(), nil
}

// sortNewestFirst orders by Timestamp descending. IDs are time ordered, so they break ties.
func sortNewestFirst(complaints []*model.Complaint) {
	sort.Slice(complaints, func(i, j int) bool {
		if !complaints[i].Timestamp.Equal(complaints[j].Timestamp) {
			return complaints[i].Timestamp.After(complaints[j].Timestamp)
		}
		return complaints[i].ID > complaints[j].ID
	})
}
