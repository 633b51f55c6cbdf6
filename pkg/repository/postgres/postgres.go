package postgres

import (
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
)

type Postgres struct {
	db        *gorm.DB
	complaint *complaintRepository
}

var _ interfaces.Repository = &Postgres{}

type Option func(*Postgres)

// WithTablePrefix namespaces every table, used to isolate test runs
func WithTablePrefix(prefix string) Option {
	return func(p *Postgres) {
		p.complaint.tablePrefix = prefix
	}
}

// New opens a PostgreSQL connection from dsn and migrates the schema.
func New(dsn string, opts ...Option) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}

	p := &Postgres{
		db:        db,
		complaint: newComplaintRepository(db),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.complaint.migrate(); err != nil {
		_ = p.Close()
		return nil, err
	}

	return p, nil
}

func (p *Postgres) Complaint() interfaces.ComplaintRepository {
	return p.complaint
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get sql.DB from gorm")
	}
	if err := sqlDB.Close(); err != nil {
		return goerr.Wrap(err, "failed to close postgres connection")
	}
	return nil
}
