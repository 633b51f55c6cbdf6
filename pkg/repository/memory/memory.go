package memory

import (
	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps complaints in process memory. Data is lost on restart.
type Memory struct {
	complaint *complaintRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		complaint: newComplaintRepository(),
	}
}

func (m *Memory) Complaint() interfaces.ComplaintRepository {
	return m.complaint
}

// Close is a no-op for the memory backend
func (m *Memory) Close() error {
	return nil
}
