package http

import (
	"context"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
)

// CaptureUseCase stores facts about people from transcribed speech
type CaptureUseCase interface {
	Capture(ctx context.Context, input model.CaptureInput) (*model.CaptureResult, error)
}

// RecallUseCase answers questions about stored memories
type RecallUseCase interface {
	Recall(ctx context.Context, input model.RecallInput) (*model.RecallResult, error)
}

// MemoryUseCase looks up and removes individual memories
type MemoryUseCase interface {
	GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error)
	DeleteMemory(ctx context.Context, id model.MemoryID) error
}

// ContactUseCase searches the user's imported network
type ContactUseCase interface {
	Search(ctx context.Context, input model.ContactSearchInput) (*model.ContactSearchResult, error)
}

type Server struct {
	router       *chi.Mux
	capture      CaptureUseCase
	recall       RecallUseCase
	memory       MemoryUseCase
	contact      ContactUseCase
	enableSentry bool
	maxBodyBytes int64
}

type Options func(*Server)

// WithSentry reports panics and request context to Sentry
func WithSentry(enabled bool) Options {
	return func(s *Server) {
		s.enableSentry = enabled
	}
}

// WithContactSearch enables the contact search endpoint
func WithContactSearch(contact ContactUseCase) Options {
	return func(s *Server) {
		s.contact = contact
	}
}

// WithMaxBodyBytes limits the size of JSON request bodies
func WithMaxBodyBytes(n int64) Options {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

func New(capture CaptureUseCase, recall RecallUseCase, memory MemoryUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:       r,
		capture:      capture,
		recall:       recall,
		memory:       memory,
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	if s.enableSentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/capture-memory", s.captureMemoryHandler)
		r.Post("/recall-memory", s.recallMemoryHandler)
		r.Get("/memories/{id}", s.getMemoryHandler)
		r.Delete("/memories/{id}", s.deleteMemoryHandler)
		if s.contact != nil {
			r.Post("/search-contacts", s.searchContactsHandler)
		}
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger binds a logger carrying the request ID to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.From(ctx).With("request_id", middleware.GetReqID(ctx))
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

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
