package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/junglesafari/safaridesk/pkg/service/extractor"
	"github.com/junglesafari/safaridesk/pkg/service/session"
	"github.com/junglesafari/safaridesk/pkg/service/worker"
	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// Chat holds CLI flags for the dialogue manager and its session store
type Chat struct {
	sessionTTL     time.Duration
	sweepInterval  time.Duration
	maxMessages    int
	persistTimeout time.Duration
	rulesFile      string
}

func (x *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Drop chat sessions idle for longer than this",
			Category:    "Chat",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("SAFARIDESK_SESSION_TTL"),
			Destination: &x.sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "session-sweep-interval",
			Usage:       "How often idle sessions are swept",
			Category:    "Chat",
			Value:       time.Minute,
			Sources:     cli.EnvVars("SAFARIDESK_SESSION_SWEEP_INTERVAL"),
			Destination: &x.sweepInterval,
		},
		&cli.IntFlag{
			Name:        "session-max-messages",
			Usage:       "Conversation messages kept per session (0 keeps all)",
			Category:    "Chat",
			Value:       session.DefaultMaxMessages,
			Sources:     cli.EnvVars("SAFARIDESK_SESSION_MAX_MESSAGES"),
			Destination: &x.maxMessages,
		},
		&cli.DurationFlag{
			Name:        "persist-timeout",
			Usage:       "Timeout for recording a finalized complaint",
			Category:    "Chat",
			Value:       usecase.DefaultPersistTimeout,
			Sources:     cli.EnvVars("SAFARIDESK_PERSIST_TIMEOUT"),
			Destination: &x.persistTimeout,
		},
		&cli.StringFlag{
			Name:        "rules-file",
			Usage:       "TOML file overriding the extraction vocabularies",
			Category:    "Chat",
			Sources:     cli.EnvVars("SAFARIDESK_RULES_FILE"),
			Destination: &x.rulesFile,
		},
	}
}

func (x Chat) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session-ttl", x.sessionTTL.String()),
		slog.String("session-sweep-interval", x.sweepInterval.String()),
		slog.Int("session-max-messages", x.maxMessages),
		slog.String("persist-timeout", x.persistTimeout.String()),
		slog.String("rules-file", x.rulesFile),
	)
}

// Extractor builds the attribute extractor, loading the rules file when one is set
func (x *Chat) Extractor() (*extractor.Extractor, error) {
	if x.rulesFile == "" {
		return extractor.New(nil), nil
	}

	rules, err := extractor.LoadRules(x.rulesFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load extraction rules")
	}
	logging.Default().Info("Loaded extraction rules", "path", x.rulesFile)
	return extractor.New(rules), nil
}

// SessionStore builds the in-memory session store
func (x *Chat) SessionStore() *session.Store {
	return session.New(session.WithMaxMessages(x.maxMessages))
}

// Sweeper builds the idle session sweeper for store
func (x *Chat) Sweeper(store *session.Store) (*worker.SessionSweeper, error) {
	if x.sessionTTL <= 0 {
		return nil, goerr.Wrap(ErrInvalidDuration, "session TTL must be positive", goerr.V(DurationKey, x.sessionTTL.String()))
	}
	if x.sweepInterval <= 0 {
		return nil, goerr.Wrap(ErrInvalidDuration, "sweep interval must be positive", goerr.V(DurationKey, x.sweepInterval.String()))
	}
	return worker.NewSessionSweeper(store, x.sessionTTL, x.sweepInterval), nil
}

// UseCaseOptions returns the chat related use case options
func (x *Chat) UseCaseOptions() ([]usecase.Option, *session.Store, error) {
	ext, err := x.Extractor()
	if err != nil {
		return nil, nil, err
	}
	if x.persistTimeout <= 0 {
		return nil, nil, goerr.Wrap(ErrInvalidDuration, "persist timeout must be positive", goerr.V(DurationKey, x.persistTimeout.String()))
	}

	store := x.SessionStore()
	return []usecase.Option{
		usecase.WithExtractor(ext),
		usecase.WithSessionStore(store),
		usecase.WithPersistTimeout(x.persistTimeout),
	}, store, nil
}
