package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/repository/firestore"
	"github.com/junglesafari/safaridesk/pkg/repository/memory"
	"github.com/junglesafari/safaridesk/pkg/repository/mongodb"
	"github.com/junglesafari/safaridesk/pkg/repository/postgres"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// Repository backend names
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendMongoDB   = "mongodb"
	BackendPostgres  = "postgres"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend    string
	projectID  string
	databaseID string
	mongoURI   string
	mongoDB    string
	// DSN may embed a password
	postgresDSN string
	prefix      string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, firestore, mongodb or postgres)",
			Category:    "Repository",
			Value:       BackendMemory,
			Sources:     cli.EnvVars("SAFARIDESK_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("SAFARIDESK_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("SAFARIDESK_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "mongodb-uri",
			Usage:       "MongoDB connection URI (required when using mongodb backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("SAFARIDESK_MONGODB_URI"),
			Destination: &r.mongoURI,
		},
		&cli.StringFlag{
			Name:        "mongodb-database",
			Usage:       "MongoDB database name",
			Category:    "Repository",
			Value:       mongodb.DefaultDatabase,
			Sources:     cli.EnvVars("SAFARIDESK_MONGODB_DATABASE"),
			Destination: &r.mongoDB,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL DSN (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("SAFARIDESK_POSTGRES_DSN"),
			Destination: &r.postgresDSN,
		},
		&cli.StringFlag{
			Name:        "repository-prefix",
			Usage:       "Prefix for collection and table names",
			Category:    "Repository",
			Sources:     cli.EnvVars("SAFARIDESK_REPOSITORY_PREFIX"),
			Destination: &r.prefix,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore-project-id", r.projectID),
		slog.String("firestore-database-id", r.databaseID),
		slog.Int("mongodb-uri.len", len(r.mongoURI)),
		slog.String("mongodb-database", r.mongoDB),
		slog.Int("postgres-dsn.len", len(r.postgresDSN)),
		slog.String("prefix", r.prefix),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// Prefix returns the collection and table name prefix
func (r *Repository) Prefix() string {
	return r.prefix
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingFlag, "firestore backend needs a project", goerr.V(FlagKey, "firestore-project-id"))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, firestore.WithCollectionPrefix(r.prefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendMongoDB:
		if r.mongoURI == "" {
			return nil, goerr.Wrap(ErrMissingFlag, "mongodb backend needs a URI", goerr.V(FlagKey, "mongodb-uri"))
		}
		repo, err := mongodb.New(ctx, r.mongoURI, r.mongoDB, mongodb.WithCollectionPrefix(r.prefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize mongodb repository")
		}
		logging.Default().Info("Using MongoDB repository", "database", r.mongoDB)
		return repo, nil

	case BackendPostgres:
		if r.postgresDSN == "" {
			return nil, goerr.Wrap(ErrMissingFlag, "postgres backend needs a DSN", goerr.V(FlagKey, "postgres-dsn"))
		}
		repo, err := postgres.New(r.postgresDSN, postgres.WithTablePrefix(r.prefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		logging.Default().Info("Using PostgreSQL repository")
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V(BackendKey, r.backend))
	}
}
