package http

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// maxBodyBytes limits JSON request bodies
const maxBodyBytes = 1 << 20

type Server struct {
	router             *chi.Mux
	uc                 *usecase.UseCases
	backend            string
	slackSigningSecret string
	enableSentry       bool
}

type Options func(*Server)

// WithBackendName sets the repository backend name reported by /health
func WithBackendName(name string) Options {
	return func(s *Server) {
		s.backend = name
	}
}

// WithSlackInteraction enables POST /hooks/slack/interaction verified with signingSecret
func WithSlackInteraction(signingSecret string) Options {
	return func(s *Server) {
		s.slackSigningSecret = signingSecret
	}
}

// WithSentry attaches a per-request Sentry hub so errors are reported with request data
func WithSentry(enabled bool) Options {
	return func(s *Server) {
		s.enableSentry = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:  r,
		uc:      uc,
		backend: "memory",
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.enableSentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	chat := chatHandler(uc.Chat)
	r.Post("/chat", chat)
	r.Post("/api/complaint/chat", chat)

	r.Route("/complaints", func(r chi.Router) {
		r.Get("/", listComplaintsHandler(uc.Complaint))
		r.Get("/stats", complaintStatsHandler(uc.Complaint))
		r.Get("/{id}", getComplaintHandler(uc.Complaint))
		r.Put("/{id}", updateComplaintHandler(uc.Complaint))
	})
	r.Get("/api/complaint", listComplaintsHandler(uc.Complaint))

	r.Get("/health", healthHandler(s.backend, uc.Sessions()))

	// Slack interaction endpoint - no auth, uses signature verification
	if s.slackSigningSecret != "" {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/interaction", NewSlackInteractionHandler(uc.Complaint).ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger puts a logger tagged with the request ID into the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.From(ctx)
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			logger = logger.With("request_id", reqID)
		}
		next.ServeHTTP(w, r.WithContext(logging.With(ctx, logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
