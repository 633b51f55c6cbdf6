package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/service/extractor"
	"github.com/junglesafari/safaridesk/pkg/service/session"
	"github.com/junglesafari/safaridesk/pkg/utils/async"
	"github.com/junglesafari/safaridesk/pkg/utils/errutil"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
	"github.com/junglesafari/safaridesk/pkg/utils/telemetry"
)

const announceTimeout = 30 * time.Second

// FallbackReply is shown to the visitor when the complaint could not be recorded
const FallbackReply = "Sorry, I'm having trouble right now. Please try again."

// ChatResult is the outcome of one visitor message
type ChatResult struct {
	SessionID types.SessionID
	Reply     string

	// Attributes accumulated over the whole session so far.
	Attributes model.Attributes

	// Logged is true once the session has produced a complaint record.
	Logged      bool
	ComplaintID types.ComplaintID

	// Complaint is set only on the turn that recorded it.
	Complaint *model.Complaint
}

type ChatUseCase struct {
	repo           interfaces.Repository
	sessions       interfaces.SessionStore
	extractor      *extractor.Extractor
	notifier       *ComplaintNotifier
	persistTimeout time.Duration
	now            func() time.Time

	turnCounter      metric.Int64Counter
	finalizedCounter metric.Int64Counter
	failureCounter   metric.Int64Counter
}

func NewChatUseCase(repo interfaces.Repository, sessions interfaces.SessionStore, x *extractor.Extractor, notifier *ComplaintNotifier, persistTimeout time.Duration, now func() time.Time) *ChatUseCase {
	if now == nil {
		now = time.Now
	}
	if persistTimeout <= 0 {
		persistTimeout = DefaultPersistTimeout
	}
	if x == nil {
		x = extractor.New(nil)
	}
	if sessions == nil {
		sessions = session.New()
	}

	meter := telemetry.Meter()
	// Instrument creation only fails on invalid names; a nil counter is skipped by add.
	turns, _ := meter.Int64Counter("safaridesk.chat.turns",
		metric.WithDescription("Visitor messages handled"))
	finalized, _ := meter.Int64Counter("safaridesk.complaints.finalized",
		metric.WithDescription("Complaints recorded from chat sessions"))
	failures, _ := meter.Int64Counter("safaridesk.complaints.persist_failures",
		metric.WithDescription("Complaint writes that failed at finalization"))

	return &ChatUseCase{
		repo:             repo,
		sessions:         sessions,
		extractor:        x,
		notifier:         notifier,
		persistTimeout:   persistTimeout,
		now:              now,
		turnCounter:      turns,
		finalizedCounter: finalized,
		failureCounter:   failures,
	}
}

// HandleMessage runs one dialogue turn for the session. An empty sessionID starts a new session.
// When the complaint cannot be persisted, ErrPersistence is returned and the session stays
// open so that the next message retries with the same attributes.
func (uc *ChatUseCase) HandleMessage(ctx context.Context, sessionID types.SessionID, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, goerr.Wrap(ErrEmptyMessage, "message is required", goerr.V(SessionIDKey, sessionID))
	}
	if sessionID.IsEmpty() {
		sessionID = types.NewSessionID()
	}

	ctx, span := telemetry.Tracer().Start(ctx, "chat.handle_message",
		trace.WithAttributes(attribute.String("session_id", sessionID.String())))
	defer span.End()

	logger := logging.From(ctx).With("session_id", sessionID)
	ctx = logging.With(ctx, logger)

	result := &ChatResult{SessionID: sessionID}
	err := uc.sessions.Do(ctx, sessionID, func(sess *model.Session) error {
		now := uc.now()
		sess.Append(model.Message{Role: types.RoleUser, Content: message, At: now}, 0)
		sess.Turns++
		sess.Attributes = sess.Attributes.Merge(uc.extractor.Extract(message))

		reply, created, err := uc.respond(ctx, sess, message)
		if err != nil {
			return err
		}

		sess.Append(model.Message{Role: types.RoleAssistant, Content: reply, At: uc.now()}, 0)

		result.Reply = reply
		result.Attributes = sess.Attributes
		result.Logged = sess.Finalized
		result.ComplaintID = sess.ComplaintID
		result.Complaint = created
		return nil
	})
	add(ctx, uc.turnCounter)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("complaint.category", result.Attributes.Category.String()),
		attribute.Bool("complaint.logged", result.Logged),
	)
	return result, nil
}

func (uc *ChatUseCase) respond(ctx context.Context, sess *model.Session, message string) (string, *model.Complaint, error) {
	attrs := sess.Attributes

	switch {
	case sess.Turns == 1:
		return fmt.Sprintf("Thank you for reaching out. I understand you have a concern about %s.", attrs.Category), nil, nil

	case sess.Finalized:
		reply := fmt.Sprintf("Your complaint regarding %s has already been recorded.", attrs.Category)
		if attrs.ContactInfo != "" {
			reply += fmt.Sprintf(" We will contact you at %s.", attrs.ContactInfo)
		}
		return reply, nil, nil
	}

	if missing := attrs.MissingSlots(); len(missing) > 0 {
		return fmt.Sprintf("Could you please provide your %s?", missing[0]), nil, nil
	}

	created, err := uc.persist(ctx, sess, message)
	if err != nil {
		return "", nil, err
	}

	sess.Finalized = true
	sess.ComplaintID = created.ID

	reply := fmt.Sprintf("Thank you. We've recorded your complaint regarding %s.", created.IssueCategory)
	if created.Severity == types.SeverityHigh {
		reply += " Our team will prioritize this."
	}
	reply += fmt.Sprintf(" We will contact you at %s.", created.ContactInfo)

	if uc.notifier.Enabled() {
		announced := created.Copy()
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.Announce(ctx, announced)
		},
			async.WithName("slack announcement"),
			async.WithAttrs(ComplaintIDKey, announced.ID, "category", announced.IssueCategory),
			async.WithTimeout(announceTimeout),
		)
	}

	return reply, created, nil
}

func (uc *ChatUseCase) persist(ctx context.Context, sess *model.Session, message string) (*model.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.persistTimeout)
	defer cancel()

	complaint := model.NewComplaint(sess.ID, message, sess.Attributes)
	created, err := uc.repo.Complaint().Create(ctx, complaint)
	if err != nil {
		add(ctx, uc.failureCounter)
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to create complaint", goerr.V(SessionIDKey, sess.ID)), "complaint persistence failed")
		return nil, goerr.Wrap(ErrPersistence, "complaint was not recorded",
			goerr.V(SessionIDKey, sess.ID),
			goerr.V("cause", err.Error()),
		)
	}

	add(ctx, uc.finalizedCounter,
		attribute.String("category", created.IssueCategory.String()),
		attribute.String("severity", created.Severity.String()),
	)
	logging.From(ctx).Info("complaint recorded",
		"complaint_id", created.ID,
		"category", created.IssueCategory,
		"severity", created.Severity,
	)
	return created, nil
}

func add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
