package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
)

const tableComplaints = "complaints"

type complaintRow struct {
	ID             string `gorm:"primaryKey;size:36"`
	Message        string `gorm:"type:text;not null"`
	CustomerName   string `gorm:"size:64"`
	ContactInfo    string `gorm:"size:256"`
	VisitDate      string `gorm:"size:64"`
	IssueCategory  string `gorm:"size:64;not null;default:other"`
	Severity       string `gorm:"size:16;not null;default:medium"`
	LocationInPark string `gorm:"size:128;not null;default:unknown"`
	Status         string `gorm:"size:32;not null;default:new"`
	AssignedTo     string `gorm:"size:256"`
	Resolution     string `gorm:"type:text"`
	ResolutionDate *time.Time
	SessionID      string    `gorm:"size:128;not null"`
	Timestamp      time.Time `gorm:"not null"`
	SlackChannelID string    `gorm:"size:32"`
	SlackMessageTS string    `gorm:"size:32"`
}

func toComplaintRow(c *model.Complaint) *complaintRow {
	return &complaintRow{
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

func (r *complaintRow) toModel() *model.Complaint {
	var resolutionDate *time.Time
	if r.ResolutionDate != nil {
		t := r.ResolutionDate.UTC()
		resolutionDate = &t
	}
	return &model.Complaint{
		ID:             types.ComplaintID(r.ID),
		Message:        r.Message,
		CustomerName:   r.CustomerName,
		ContactInfo:    r.ContactInfo,
		VisitDate:      r.VisitDate,
		IssueCategory:  types.Category(r.IssueCategory).Normalize(),
		Severity:       types.Severity(r.Severity).Normalize(),
		LocationInPark: types.Location(r.LocationInPark).Normalize(),
		Status:         types.ComplaintStatus(r.Status).Normalize(),
		AssignedTo:     r.AssignedTo,
		Resolution:     r.Resolution,
		ResolutionDate: resolutionDate,
		SessionID:      types.SessionID(r.SessionID),
		Timestamp:      r.Timestamp.UTC(),
		SlackChannelID: r.SlackChannelID,
		SlackMessageTS: r.SlackMessageTS,
	}
}

type complaintRepository struct {
	db          *gorm.DB
	tablePrefix string
}

func newComplaintRepository(db *gorm.DB) *complaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) tableName() string {
	if r.tablePrefix != "" {
		return r.tablePrefix + "_" + tableComplaints
	}
	return tableComplaints
}

func (r *complaintRepository) table() *gorm.DB {
	return r.db.Table(r.tableName())
}

// migrate creates the table and the indexes backing List filters. Index names carry
// the table name so prefixed tables can share a schema.
func (r *complaintRepository) migrate() error {
	if err := r.table().AutoMigrate(&complaintRow{}); err != nil {
		return goerr.Wrap(err, "failed to migrate complaints table", goerr.V("table", r.tableName()))
	}

	table := r.tableName()
	statements := []string{
		"CREATE INDEX IF NOT EXISTS " + table + "_status_timestamp_idx ON " + table + " (status, timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS " + table + "_session_timestamp_idx ON " + table + " (session_id, timestamp DESC)",
	}
	for _, stmt := range statements {
		if err := r.db.Exec(stmt).Error; err != nil {
			return goerr.Wrap(err, "failed to create index", goerr.V("statement", stmt))
		}
	}
	return nil
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	created := c.Copy()
	created.ID = types.NewComplaintID()
	// PostgreSQL stores microseconds; truncate so the returned copy matches what is read back.
	created.Timestamp = time.Now().UTC().Truncate(time.Microsecond)
	created.Status = created.Status.Normalize()

	if err := r.table().WithContext(ctx).Create(toComplaintRow(created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to insert complaint", goerr.V("session_id", c.SessionID))
	}
	return created, nil
}

func (r *complaintRepository) Get(ctx context.Context, id types.ComplaintID) (*model.Complaint, error) {
	var row complaintRow
	if err := r.table().WithContext(ctx).Where("id = ?", id.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get complaint", goerr.V("id", id))
	}
	return row.toModel(), nil
}

func (r *complaintRepository) List(ctx context.Context, opts ...interfaces.ListComplaintOption) ([]*model.Complaint, error) {
	cfg := interfaces.BuildListComplaintConfig(opts...)

	query := r.table().WithContext(ctx)
	if s := cfg.Status(); s != nil {
		query = query.Where("status = ?", s.String())
	}
	if id := cfg.SessionID(); id != nil {
		query = query.Where("session_id = ?", id.String())
	}
	query = query.Order("timestamp desc").Order("id desc")
	if limit := cfg.Limit(); limit > 0 {
		query = query.Limit(limit)
	}

	var rows []complaintRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to list complaints")
	}

	complaints := make([]*model.Complaint, 0, len(rows))
	for i := range rows {
		complaints = append(complaints, rows[i].toModel())
	}
	return complaints, nil
}

func (r *complaintRepository) Update(ctx context.Context, c *model.Complaint) (*model.Complaint, error) {
	var updated *model.Complaint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing complaintRow
		err := tx.Table(r.tableName()).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", c.ID.String()).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to get complaint", goerr.V("id", c.ID))
		}

		updated = c.Copy()
		updated.Timestamp = existing.Timestamp.UTC()
		updated.SlackChannelID = existing.SlackChannelID
		updated.SlackMessageTS = existing.SlackMessageTS
		if err := tx.Table(r.tableName()).Save(toComplaintRow(updated)).Error; err != nil {
			return goerr.Wrap(err, "failed to save complaint", goerr.V("id", c.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *complaintRepository) SetSlackMessage(ctx context.Context, id types.ComplaintID, channelID, ts string) (*model.Complaint, error) {
	res := r.db.WithContext(ctx).Table(r.tableName()).
		Where("id = ?", id.String()).
		Updates(map[string]any{
			"slack_channel_id": channelID,
			"slack_message_ts": ts,
		})
	if res.Error != nil {
		return nil, goerr.Wrap(res.Error, "failed to set Slack message", goerr.V("id", id))
	}
	if res.RowsAffected == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "complaint not found", goerr.V("id", id))
	}
	return r.Get(ctx, id)
}
