package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"authflow/internal/auth"
	"authflow/internal/config"
)

type Server struct {
	Lifecycle *auth.Lifecycle
	Sessions  *auth.SessionIssuer
	Config    config.Config
}

func NewServer(cfg config.Config, lifecycle *auth.Lifecycle, sessions *auth.SessionIssuer) *Server {
	return &Server{
		Lifecycle: lifecycle,
		Sessions:  sessions,
		Config:    cfg,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	formatter := &middleware.DefaultLogFormatter{
		Logger:  log.New(log.Writer(), "", log.Flags()),
		NoColor: true,
	}
	r.Use(middleware.RequestLogger(formatter))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)
	r.Use(corsAllowlist(s.Config.AllowedOrigins))

	r.Get("/", s.handleHealth)

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/signup", s.handleSignup)
		ar.Get("/verify/{token}", s.handleVerifyEmail)
		ar.Post("/login", s.handleLogin)
		ar.Post("/logout", s.handleLogout)
		ar.Post("/forgot-password", s.handleForgotPassword)
		ar.Post("/reset-password", s.handleResetPassword)

		ar.With(s.requireSession).Get("/me", s.handleMe)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Server is Live"))
}
