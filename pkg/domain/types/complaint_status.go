package types

import "github.com/m-mizutani/goerr/v2"

// ComplaintStatus represents the moderation status of a complaint
type ComplaintStatus string

const (
	ComplaintStatusNew        ComplaintStatus = "new"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// AllComplaintStatuses returns all valid complaint statuses
func AllComplaintStatuses() []ComplaintStatus {
	return []ComplaintStatus{
		ComplaintStatusNew,
		ComplaintStatusInProgress,
		ComplaintStatusResolved,
		ComplaintStatusClosed,
	}
}

// IsValid checks if the complaint status is valid
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusNew,
		ComplaintStatusInProgress,
		ComplaintStatusResolved,
		ComplaintStatusClosed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the complaint no longer needs work.
func (s ComplaintStatus) IsTerminal() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusClosed
}

// Normalize returns the status, treating empty as ComplaintStatusNew.
func (s ComplaintStatus) Normalize() ComplaintStatus {
	if s == "" {
		return ComplaintStatusNew
	}
	return s
}

// String returns the string representation of the complaint status
func (s ComplaintStatus) String() string {
	return string(s)
}

// ParseComplaintStatus parses a string into a ComplaintStatus
func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	status := ComplaintStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid complaint status", goerr.V("status", s))
	}
	return status, nil
}

// Emoji returns the Slack emoji shortcode for the status
func (s ComplaintStatus) Emoji() string {
	switch s {
	case ComplaintStatusInProgress:
		return ":hourglass_flowing_sand:"
	case ComplaintStatusResolved:
		return ":white_check_mark:"
	case ComplaintStatusClosed:
		return ":no_entry_sign:"
	default:
		return ":new:"
	}
}
