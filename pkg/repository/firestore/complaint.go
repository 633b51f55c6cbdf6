package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

// CollectionComplaints is the collection name without prefix. The migrate command
// declares its indexes.
const CollectionComplaints = "complaints"

type complaintDocument struct {
	ID             string     `firestore:"id"`
	Message        string     `firestore:"message"`
	CustomerName   string     `firestore:"customer_name"`
	ContactInfo    string     `firestore:"contact_info"`
	VisitDate      string     `firestore:"visit_date"`
	IssueCategory  string     `firestore:"issue_category"`
	Severity       string     `firestore:"severity"`
	LocationInPark string     `firestore:"location_in_park"`
	Status         string     `firestore:"status"`
	AssignedTo     string     `firestore:"assigned_to"`
	Resolution     string     `firestore:"resolution"`
	ResolutionDate *time.Time `firestore:"resolution_date"`
	SessionID      string     `firestore:"session_id"`
	Timestamp      time.Time  `firestore:"timestamp"`
	SlackChannelID string     `firestore:"slack_channel_id"`
	SlackMessageTS string     `firestore:"slack_message_ts"`
}

func toComplaintDocument(c *model.Complaint) *complaintDocument {
	return &complaintDocument{
		ID:             c.ID.String(),
		Message:        c.Message,
		CustomerName:   c.CustomerName,
		ContactInfo:    c.ContactInfo,
		VisitDate:      c.VisitDate,
		IssueCategory:  c.IssueCategory.String(),
		Severity:       c.Severity.String(),
		LocationInPark: c.LocationInPark.String(),
		Status:         c.Status.String(),
		AssignedTo:     c.AssignedTo,
		Resolution:     c.Resolution,
		ResolutionDate: c.ResolutionDate,
		SessionID:      c.SessionID.String(),
		Timestamp:      c.Timestamp,
		SlackChannelID: c.SlackChannelID,
		SlackMessageTS: c.SlackMessageTS,
	}
}

func (d *complaintDocument) toModel() *model.Complaint {
	return &model.Complaint{
		ID:             types.ComplaintID(d.ID),
		Message:        d.Message,
		CustomerName:   d.CustomerName,
		ContactInfo:    d.ContactInfo,
		VisitDate:      d.VisitDate,
		IssueCategory:  types.Category(d.IssueCategory).Normalize(),
		Severity:       types.Severity(d.Severity).Normalize(),
		LocationInPark: types.Location(d.LocationInPark).Normalize(),
		Status:         types.ComplaintStatus(d.Status).Normalize(),
		AssignedTo:     d.AssignedTo,
		Resolution:     d.Resolution,
		ResolutionDate: d.ResolutionDate,
		SessionID:      types.SessionID(d.SessionID),
		Timestamp:      d.Timestamp,
		SlackChannelID: d.SlackChannelID,
		SlackMessageTS: d.SlackMessageTS,
	}
}

type complaintRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newComplaintRepository(client *firestore.Client) *complaintRepository {
	return &complaintRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// ComplaintsCollectionName returns the complaints collection name for prefix
func ComplaintsCollectionName(prefix string) string {
	if prefix != "" {
		return prefix + "_" + CollectionComplaints
	}
	return CollectionComplaints
}

func (r *complaintRepository) complaintsCollection() string {
	return ComplaintsCollectionName(r.collectionPrefix)
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	docRef := r.client.Collection(r.complaintsCollection()).NewDoc()

	created := c.Copy()
	created.ID = types.ComplaintID(docRef.ID)
	created.Timestamp = time.Now().UTC()
	created.Status = created.Status.Normalize()

	if _, err := docRef.Create(ctx, toComplaintDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create complaint", goerr.V("session_id", c.SessionID))
	}

	return created, nil
}

func (r *complaintRepository) Get(ctx context.Context, id types.ComplaintID) (*model.Complaint, error) {
	doc, err := r.client.Collection(r.complaintsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get complaint", goerr.V("id", id))
	}

	var complaintDoc complaintDocument
	if err := doc.DataTo(&complaintDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal complaint", goerr.V("id", id))
	}

	return complaintDoc.toModel(), nil
}

func (r *complaintRepository) List(ctx context.Context, opts ...interfaces.ListComplaintOption) ([]*model.Complaint, error) {
	cfg := interfaces.BuildListComplaintConfig(opts...)

	query := r.client.Collection(r.complaintsCollection()).Query
	if s := cfg.Status(); s != nil {
		query = query.Where("status", "==", s.String())
	}
	if id := cfg.SessionID(); id != nil {
		query = query.Where("session_id", "==", id.String())
	}
	query = query.OrderBy("timestamp", firestore.Desc)
	if limit := cfg.Limit(); limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	complaints := []*model.Complaint{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate complaints")
		}

		var complaintDoc complaintDocument
		if err := doc.DataTo(&complaintDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal complaint", goerr.V("id", doc.Ref.ID))
		}
		complaints = append(complaints, complaintDoc.toModel())
	}

	return complaints, nil
}

func (r *complaintRepository) Update(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	docRef := r.client.Collection(r.complaintsCollection()).Doc(c.ID.String())

	updated := c.Copy()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to get complaint", goerr.V("id", c.ID))
		}

		var existing complaintDocument
		if err := doc.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal complaint", goerr.V("id", c.ID))
		}

		updated.Timestamp = existing.Timestamp
		updated.SlackChannelID = existing.SlackChannelID
		updated.SlackMessageTS = existing.SlackMessageTS
		return tx.Set(docRef, toComplaintDocument(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update complaint", goerr.V("id", c.ID))
	}

	return updated, nil
}

func (r *complaintRepository) SetSlackMessage(ctx context.Context, id types.ComplaintID, channelID, ts string) (*model.Complaint, error) {
	docRef := r.client.Collection(r.complaintsCollection()).Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "slack_channel_id", Value: channelID},
		{Path: "slack_message_ts", Value: ts},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to set Slack message", goerr.V("id", id))
	}

	return r.Get(ctx, id)
}
