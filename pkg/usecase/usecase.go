package usecase

import (
	"time"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/service/extractor"
	"github.com/junglesafari/safaridesk/pkg/service/session"
	"github.com/junglesafari/safaridesk/pkg/service/slack"
)

// DefaultPersistTimeout bounds the repository write made when a complaint is finalized
const DefaultPersistTimeout = 5 * time.Second

type UseCases struct {
	repo           interfaces.Repository
	sessions       interfaces.SessionStore
	extractor      *extractor.Extractor
	slackService   slack.Service
	slackChannelID string
	baseURL        string
	persistTimeout time.Duration
	now            func() time.Time

	Chat      *ChatUseCase
	Complaint *ComplaintUseCase
	Notifier  *ComplaintNotifier
}

type Option func(*UseCases)

// WithSessionStore replaces the default in-memory session store
func WithSessionStore(store interfaces.SessionStore) Option {
	return func(uc *UseCases) {
		uc.sessions = store
	}
}

// WithExtractor replaces the extractor built from the default rules
func WithExtractor(x *extractor.Extractor) Option {
	return func(uc *UseCases) {
		uc.extractor = x
	}
}

// WithSlack enables complaint announcements to channelID
func WithSlack(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannelID = channelID
	}
}

// WithBaseURL sets the public URL used to link complaints from Slack messages
func WithBaseURL(baseURL string) Option {
	return func(uc *UseCases) {
		uc.baseURL = baseURL
	}
}

// WithPersistTimeout bounds the repository write at finalization
func WithPersistTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.persistTimeout = d
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		persistTimeout: DefaultPersistTimeout,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.sessions == nil {
		uc.sessions = session.New()
	}
	if uc.extractor == nil {
		uc.extractor = extractor.New(nil)
	}

	uc.Notifier = NewComplaintNotifier(repo, uc.slackService, uc.slackChannelID, uc.baseURL)
	uc.Chat = NewChatUseCase(repo, uc.sessions, uc.extractor, uc.Notifier, uc.persistTimeout, uc.now)
	uc.Complaint = NewComplaintUseCase(repo, uc.Notifier, uc.slackService, uc.now)

	return uc
}

// Sessions returns the session store used by the chat use case
func (uc *UseCases) Sessions() interfaces.SessionStore {
	return uc.sessions
}
