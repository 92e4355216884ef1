package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m-mizutani/atelier/pkg/service/artifact"
	"github.com/m-mizutani/atelier/pkg/usecase"
	"github.com/m-mizutani/atelier/pkg/utils/logging"
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	artifactSvc artifact.Storage
}

type Options func(*Server)

// WithArtifactStorage enables serving stored artifact bytes under
// /artifacts/. Intended for the local storage backend; bucket-backed
// deployments usually serve artifacts from the bucket directly.
func WithArtifactStorage(svc artifact.Storage) Options {
	return func(s *Server) {
		s.artifactSvc = svc
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/creations", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/similar", s.handleFindSimilar)
		r.Get("/{creationID}", s.handleGetCreation)
	})

	if s.artifactSvc != nil {
		r.Get("/artifacts/*", s.handleGetArtifact)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
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
