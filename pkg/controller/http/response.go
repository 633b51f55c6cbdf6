package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// complaintResponse is the wire form of a complaint. Unset optional fields are null.
type complaintResponse struct {
	ID             string     `json:"id"`
	Message        string     `json:"message"`
	CustomerName   *string    `json:"customer_name"`
	ContactInfo    *string    `json:"contact_info"`
	VisitDate      *string    `json:"visit_date"`
	IssueCategory  string     `json:"issue_category"`
	Severity       string     `json:"severity"`
	LocationInPark string     `json:"location_in_park"`
	Status         string     `json:"status"`
	AssignedTo     *string    `json:"assigned_to"`
	Resolution     *string    `json:"resolution"`
	ResolutionDate *time.Time `json:"resolution_date"`
	SessionID      string     `json:"session_id"`
	Timestamp      time.Time  `json:"timestamp"`
}

func toComplaintResponse(c *model.Complaint) complaintResponse {
	return complaintResponse{
		ID:             c.ID.String(),
		Message:        c.Message,
		CustomerName:   nullable(c.CustomerName),
		ContactInfo:    nullable(c.ContactInfo),
		VisitDate:      nullable(c.VisitDate),
		IssueCategory:  c.IssueCategory.String(),
		Severity:       c.Severity.String(),
		LocationInPark: c.LocationInPark.String(),
		Status:         c.Status.String(),
		AssignedTo:     nullable(c.AssignedTo),
		Resolution:     nullable(c.Resolution),
		ResolutionDate: c.ResolutionDate,
		SessionID:      c.SessionID.String(),
		Timestamp:      c.Timestamp,
	}
}

func toComplaintResponses(complaints []*model.Complaint) []complaintResponse {
	resp := make([]complaintResponse, len(complaints))
	for i, c := range complaints {
		resp[i] = toComplaintResponse(c)
	}
	return resp
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err)
	}
}
