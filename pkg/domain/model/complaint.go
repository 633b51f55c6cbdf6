package model

import (
	"strings"
	"time"

	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// Complaint is a finalized complaint record. ID and Timestamp are assigned by the repository.
type Complaint struct {
	ID             types.ComplaintID
	Message        string
	CustomerName   string `masq:"secret"`
	ContactInfo    string `masq:"secret"`
	VisitDate      string
	IssueCategory  types.Category
	Severity       types.Severity
	LocationInPark types.Location
	Status         types.ComplaintStatus
	AssignedTo     string
	Resolution     string
	ResolutionDate *time.Time
	SessionID      types.SessionID
	Timestamp      time.Time

	// Slack message that announced the complaint, if any.
	SlackChannelID string
	SlackMessageTS string
}

// NewComplaint builds a record in status new from the accumulated attributes of a session.
func NewComplaint(sessionID types.SessionID, message string, attrs Attributes) *Complaint {
	attrs = attrs.Normalize()
	return &Complaint{
		Message:        message,
		CustomerName:   attrs.CustomerName,
		ContactInfo:    attrs.ContactInfo,
		VisitDate:      attrs.VisitDate,
		IssueCategory:  attrs.Category,
		Severity:       attrs.Severity,
		LocationInPark: attrs.Location,
		Status:         types.ComplaintStatusNew,
		SessionID:      sessionID,
	}
}

// Copy returns a deep copy of the complaint.
func (c *Complaint) Copy() *Complaint {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ResolutionDate != nil {
		t := *c.ResolutionDate
		cp.ResolutionDate = &t
	}
	return &cp
}

// ComplaintUpdate carries moderation changes. Nil or blank fields are left untouched.
type ComplaintUpdate struct {
	Status     *types.ComplaintStatus
	AssignedTo *string
	Resolution *string
}

// IsEmpty reports whether the update changes nothing.
func (u ComplaintUpdate) IsEmpty() bool {
	return (u.Status == nil || *u.Status == "") &&
		(u.AssignedTo == nil || strings.TrimSpace(*u.AssignedTo) == "") &&
		(u.Resolution == nil || strings.TrimSpace(*u.Resolution) == "")
}

// Apply writes the provided fields of u into c. Moving into a terminal status stamps
// ResolutionDate once; reopening clears it.
func (c *Complaint) Apply(u ComplaintUpdate, now time.Time) {
	if u.Status != nil && *u.Status != "" {
		c.Status = *u.Status
		switch {
		case c.Status.IsTerminal() && c.ResolutionDate == nil:
			t := now
			c.ResolutionDate = &t
		case !c.Status.IsTerminal():
			c.ResolutionDate = nil
		}
	}
	if u.AssignedTo != nil && strings.TrimSpace(*u.AssignedTo) != "" {
		c.AssignedTo = strings.TrimSpace(*u.AssignedTo)
	}
	if u.Resolution != nil && strings.TrimSpace(*u.Resolution) != "" {
		c.Resolution = strings.TrimSpace(*u.Resolution)
	}
}
