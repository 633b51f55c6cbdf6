package interfaces

import (
	"context"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// ComplaintRepository persists finalized complaints
type ComplaintRepository interface {
	// Create stores a new complaint. The backend assigns ID and Timestamp and returns the stored copy.
	Create(ctx context.Context, complaint *model.Complaint) (*model.Complaint, error)

	// Get retrieves a complaint by ID. Returns an error wrapping ErrNotFound if absent.
	Get(ctx context.Context, id types.ComplaintID) (*model.Complaint, error)

	// List returns complaints sorted by Timestamp, newest first
	List(ctx context.Context, opts ...ListComplaintOption) ([]*model.Complaint, error)

	// Update saves the moderation and content fields of a stored complaint. Timestamp
	// and the Slack message reference are kept from the stored record.
	// Returns an error wrapping ErrNotFound if absent.
	Update(ctx context.Context, complaint *model.Complaint) (*model.Complaint, error)

	// SetSlackMessage records where the complaint was announced without touching any
	// other field. Returns an error wrapping ErrNotFound if absent.
	SetSlackMessage(ctx context.Context, id types.ComplaintID, channelID, ts string) (*model.Complaint, error)
}
