// Package server exposes the debate service over HTTP: session lifecycle,
// speaking-points generation, and the saved-debate library.
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/sparringlab/sparring/internal/auth"
	"github.com/sparringlab/sparring/internal/debate"
	"github.com/sparringlab/sparring/internal/library"
)

// Options configures a Server. Chat, Verifier, and Store are required;
// Model and Logger fall back to sensible defaults.
type Options struct {
	Chat     debate.ChatClient
	Model    string
	Verifier auth.Verifier
	Store    library.Store
	Logger   *slog.Logger
}

// Server routes HTTP requests to debate sessions and the library.
type Server struct {
	app      *fiber.App
	llm      debate.ChatClient
	model    string
	scorer   *debate.Scorer
	points   *debate.PointsGenerator
	verifier auth.Verifier
	store    library.Store
	sessions *registry
	logger   *slog.Logger
}

// New builds the server and registers all routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		app:      fiber.New(),
		llm:      opts.Chat,
		model:    opts.Model,
		scorer:   debate.NewScorer(opts.Chat, opts.Model),
		points:   debate.NewPointsGenerator(opts.Chat, opts.Model),
		verifier: opts.Verifier,
		store:    opts.Store,
		sessions: newRegistry(),
		logger:   logger,
	}
	s.app.Use(fiberlogger.New())

	api := s.app.Group("/api")
	api.Post("/debates", s.createDebate)
	api.Get("/debates/:id", s.getDebate)
	api.Post("/debates/:id/start", s.startDebate)
	api.Post("/debates/:id/messages", s.submitMessage)
	api.Post("/debates/:id/reset", s.resetDebate)
	api.Post("/debates/:id/save", s.saveDebate)
	api.Post("/speaking-points", s.generatePoints)
	api.Post("/library", s.saveLibraryEntry)
	api.Get("/library", s.listLibrary)
	api.Delete("/library/:id", s.deleteLibraryEntry)

	return s
}

// App returns the underlying Fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
