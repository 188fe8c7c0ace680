package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pressbridge/pressbridge/pkg/usecase"
	"github.com/pressbridge/pressbridge/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/setup", s.handleIsSetup)
		r.Post("/setup", s.handleSetup)
		r.Put("/setup", s.handleUpdateSetup)

		r.Post("/session", s.handleAddSession)
		r.Get("/session", s.handleReadSession)
		r.Delete("/session", s.handleDeleteSession)

		r.Post("/tokens/revoke", s.handleRevokeToken)

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", s.handleBrowseInvites)
			r.Post("/", s.handleAddInvite)
			r.Post("/accept", s.handleAcceptInvite)
			r.Get("/{id}", s.handleReadInvite)
			r.Delete("/{id}", s.handleDeleteInvite)
		})

		r.Get("/users", s.handleBrowseUsers)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleGetRoom)
			r.Post("/self", s.handleSelfRoom)
			r.Post("/{id}/discussions", s.handleCreateDiscussion)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.handleBrowsePosts)
			r.Post("/", s.handleAddPost)
			r.Get("/{id}", s.handleReadPost)
			r.Put("/{id}", s.handleEditPost)
			r.Delete("/{id}", s.handleDeletePost)
			r.Post("/{id}/collaborate", s.handleCollaborate)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleBrowseSettings)
			r.Get("/routes", s.handleDownloadRoutes)
			r.Post("/routes", s.handleUploadRoutes)
			r.Get("/{key}", s.handleReadSetting)
			r.Put("/{key}", s.handleEditSetting)
		})
	})

	// webhook authorizes itself by the path-embedded token, no session
	r.Post("/hooks/chat/{token}", s.handleWebhook)

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
