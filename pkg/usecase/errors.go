package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrEmptyMessage   = errors.New("message is empty")
	ErrInvalidStatus  = errors.New("invalid complaint status")
	ErrInvalidRequest = errors.New("invalid request")

	// Not found errors
	ErrComplaintNotFound = errors.New("complaint not found")

	// Persistence errors
	ErrPersistence = errors.New("failed to persist complaint")
)

// Context keys for error values
const (
	SessionIDKey   = "session_id"
	ComplaintIDKey = "complaint_id"
	StatusKey      = "status"
)
