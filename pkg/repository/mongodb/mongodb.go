package mongodb

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
)

const (
	// DefaultDatabase is used when no database name is given
	DefaultDatabase = "safaridesk"

	connectTimeout = 10 * time.Second
)

type MongoDB struct {
	client    *mongo.Client
	complaint *complaintRepository
}

var _ interfaces.Repository = &MongoDB{}

type Option func(*MongoDB)

// WithCollectionPrefix namespaces every collection, used to isolate test runs
func WithCollectionPrefix(prefix string) Option {
	return func(m *MongoDB) {
		m.complaint.collectionPrefix = prefix
	}
}

// New connects to MongoDB, verifies the connection and ensures indexes exist.
func New(ctx context.Context, uri, database string, opts ...Option) (*MongoDB, error) {
	if database == "" {
		database = DefaultDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to mongodb", goerr.V("database", database))
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, goerr.Wrap(err, "failed to ping mongodb", goerr.V("database", database))
	}

	m := &MongoDB{
		client:    client,
		complaint: newComplaintRepository(client.Database(database)),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.complaint.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return m, nil
}

func (m *MongoDB) Complaint() interfaces.ComplaintRepository {
	return m.complaint
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := m.client.Disconnect(ctx); err != nil {
		return goerr.Wrap(err, "failed to disconnect from mongodb")
	}
	return nil
}

func (r *complaintRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create complaint indexes", goerr.V("collection", r.collectionName()))
	}
	return nil
}
