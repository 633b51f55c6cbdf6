package interfaces

import (
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// ListComplaintOption is a functional option for filtering complaints in List
type ListComplaintOption func(*ListComplaintConfig)

// ListComplaintConfig holds the filters collected from ListComplaintOption
type ListComplaintConfig struct {
	status    *types.ComplaintStatus
	sessionID *types.SessionID
	limit     int
}

// WithStatus filters complaints by status
func WithStatus(status types.ComplaintStatus) ListComplaintOption {
	return func(c *ListComplaintConfig) {
		c.status = &status
	}
}

// WithSessionID filters complaints recorded by a chat session
func WithSessionID(id types.SessionID) ListComplaintOption {
	return func(c *ListComplaintConfig) {
		c.sessionID = &id
	}
}

// WithLimit caps the number of complaints returned. Zero means no limit.
func WithLimit(n int) ListComplaintOption {
	return func(c *ListComplaintConfig) {
		c.limit = n
	}
}

// BuildListComplaintConfig builds a ListComplaintConfig from options
func BuildListComplaintConfig(opts ...ListComplaintOption) *ListComplaintConfig {
	cfg := &ListComplaintConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Status returns the status filter value, or nil if not set
func (c *ListComplaintConfig) Status() *types.ComplaintStatus {
	return c.status
}

// SessionID returns the session filter value, or nil if not set
func (c *ListComplaintConfig) SessionID() *types.SessionID {
	return c.sessionID
}

// Limit returns the maximum number of results, zero for unlimited
func (c *ListComplaintConfig) Limit() int {
	return c.limit
}

// Match reports whether complaint passes every filter. Backends that cannot
// filter natively use it after loading.
func (c *ListComplaintConfig) Match(complaint *model.Complaint) bool {
	if c.status != nil && complaint.Status.Normalize() != *c.status {
		return false
	}
	if c.sessionID != nil && complaint.SessionID != *c.sessionID {
		return false
	}
	return true
}
