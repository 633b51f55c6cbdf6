package interfaces

import (
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is wrapped by every backend when a requested record does not exist.
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Complaint() ComplaintRepository

	// Close releases connections held by the backend
	Close() error
}
