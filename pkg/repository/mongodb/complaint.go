package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

const collectionComplaints = "complaints"

type complaintDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Message        string             `bson:"message"`
	CustomerName   string             `bson:"customer_name,omitempty"`
	ContactInfo    string             `bson:"contact_info,omitempty"`
	VisitDate      string             `bson:"visit_date,omitempty"`
	IssueCategory  string             `bson:"issue_category"`
	Severity       string             `bson:"severity"`
	LocationInPark string             `bson:"location_in_park"`
	Status         string             `bson:"status"`
	AssignedTo     string             `bson:"assigned_to,omitempty"`
	Resolution     string             `bson:"resolution,omitempty"`
	ResolutionDate *time.Time         `bson:"resolution_date,omitempty"`
	SessionID      string             `bson:"session_id"`
	Timestamp      time.Time          `bson:"timestamp"`
	SlackChannelID string             `bson:"slack_channel_id,omitempty"`
	SlackMessageTS string             `bson:"slack_message_ts,omitempty"`
}

func toComplaintDocument(c *model.Complaint) *complaintDocument {
	return &complaintDocument{
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
	var resolutionDate *time.Time
	if d.ResolutionDate != nil {
		t := d.ResolutionDate.UTC()
		resolutionDate = &t
	}
	return &model.Complaint{
		ID:             types.ComplaintID(d.ID.Hex()),
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
		ResolutionDate: resolutionDate,
		SessionID:      types.SessionID(d.SessionID),
		Timestamp:      d.Timestamp.UTC(),
		SlackChannelID: d.SlackChannelID,
		SlackMessageTS: d.SlackMessageTS,
	}
}

type complaintRepository struct {
	db               *mongo.Database
	collectionPrefix string
}

func newComplaintRepository(db *mongo.Database) *complaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) collectionName() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + collectionComplaints
	}
	return collectionComplaints
}

func (r *complaintRepository) collection() *mongo.Collection {
	return r.db.Collection(r.collectionName())
}

// objectID converts an ID to an ObjectID. Malformed IDs cannot exist, so they report not found.
func objectID(id types.ComplaintID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return primitive.NilObjectID, goerr.Wrap(interfaces.ErrNotFound, "malformed complaint id", goerr.V("id", id))
	}
	return oid, nil
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	created := c.Copy()
	// MongoDB stores milliseconds; truncate so the returned copy matches what is read back.
	created.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	created.Status = created.Status.Normalize()

	doc := toComplaintDocument(created)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection().InsertOne(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to insert complaint", goerr.V("session_id", c.SessionID))
	}

	created.ID = types.ComplaintID(doc.ID.Hex())
	return created, nil
}

func (r *complaintRepository) Get(ctx context.Context, id types.ComplaintID) (*model.Complaint, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc complaintDocument
	if err := r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to find complaint", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *complaintRepository) List(ctx context.Context, opts ...interfaces.ListComplaintOption) ([]*model.Complaint, error) {
	cfg := interfaces.BuildListComplaintConfig(opts...)

	filter := bson.M{}
	if s := cfg.Status(); s != nil {
		filter["status"] = s.String()
	}
	if id := cfg.SessionID(); id != nil {
		filter["session_id"] = id.String()
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit := cfg.Limit(); limit > 0 {
		findOpts.SetLimit(int64(limit))
	}

	cur, err := r.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query complaints")
	}

	var docs []complaintDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, goerr.Wrap(err, "failed to decode complaints")
	}

	complaints := make([]*model.Complaint, 0, len(docs))
	for i := range docs {
		complaints = append(complaints, docs[i].toModel())
	}
	return complaints, nil
}

func (r *complaintRepository) Update(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	oid, err := objectID(c.ID)
	if err != nil {
		return nil, err
	}

	// timestamp and the Slack fields are never part of the $set
	set := bson.M{
		"message":          c.Message,
		"customer_name":    c.CustomerName,
		"contact_info":     c.ContactInfo,
		"visit_date":       c.VisitDate,
		"issue_category":   c.IssueCategory.String(),
		"severity":         c.Severity.String(),
		"location_in_park": c.LocationInPark.String(),
		"status":           c.Status.String(),
		"assigned_to":      c.AssignedTo,
		"resolution":       c.Resolution,
		"resolution_date":  c.ResolutionDate,
		"session_id":       c.SessionID.String(),
	}
	return r.findAndSet(ctx, c.ID, oid, set)
}

func (r *complaintRepository) SetSlackMessage(ctx context.Context, id types.ComplaintID, channelID, ts string) (*model.Complaint, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findAndSet(ctx, id, oid, bson.M{
		"slack_channel_id": channelID,
		"slack_message_ts": ts,
	})
}

func (r *complaintRepository) findAndSet(ctx context.Context, id types.ComplaintID, oid primitive.ObjectID, set bson.M) (*model.Complaint, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc complaintDocument
	err := r.collection().FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to update complaint", goerr.V("id", id))
	}
	return doc.toModel(), nil
}
