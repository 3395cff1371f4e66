package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sparringlab/sparring/internal/auth"
	"github.com/sparringlab/sparring/internal/debate"
	"github.com/sparringlab/sparring/internal/gateway"
	"github.com/sparringlab/sparring/internal/library"
)

var errUnknownSession = errors.New("server: unknown session")

// sessionView is the wire shape of a session's observable state.
type sessionView struct {
	ID       string           `json:"id"`
	State    debate.State     `json:"state"`
	Round    int              `json:"round"`
	Settings debate.Settings  `json:"settings"`
	Argues   bool             `json:"argues"`
	Messages []debate.Message `json:"messages"`
}

func viewOf(s *debate.Session) sessionView {
	return sessionView{
		ID:       s.ID,
		State:    s.State(),
		Round:    s.Round(),
		Settings: s.Settings(),
		Argues:   s.Settings().LanguageTone.Argues(),
		Messages: s.Messages(),
	}
}

func (s *Server) createDebate(c *fiber.Ctx) error {
	var settings debate.Settings
	if err := c.BodyParser(&settings); err != nil {
		return s.fail(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	session, err := debate.NewSession(settings, s.llm, s.scorer, s.model, s.logger)
	if err != nil {
		return s.fail(c, err)
	}
	s.sessions.add(session)
	s.logger.Info("session created", "session", session.ID, "topic", settings.Topic)
	return c.Status(fiber.StatusCreated).JSON(viewOf(session))
}

func (s *Server) getDebate(c *fiber.Ctx) error {
	session, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return s.fail(c, errUnknownSession)
	}
	return c.JSON(viewOf(session))
}

func (s *Server) startDebate(c *fiber.Ctx) error {
	session, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return s.fail(c, errUnknownSession)
	}
	opening, err := session.Start(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"opening": opening,
		"state":   session.State(),
		"round":   session.Round(),
	})
}

func (s *Server) submitMessage(c *fiber.Ctx) error {
	session, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return s.fail(c, errUnknownSession)
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return s.fail(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	result, err := session.Submit(c.UserContext(), body.Content)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"userMessage": result.UserMessage,
		"reply":       result.Reply,
		"state":       session.State(),
		"round":       session.Round(),
	})
}

func (s *Server) resetDebate(c *fiber.Ctx) error {
	session, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return s.fail(c, errUnknownSession)
	}
	session.Reset()
	return c.JSON(viewOf(session))
}

func (s *Server) saveDebate(c *fiber.Ctx) error {
	identity, err := s.requireIdentity(c)
	if err != nil {
		return s.fail(c, err)
	}
	session, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return s.fail(c, errUnknownSession)
	}
	entry, err := session.Entry()
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.store.Save(c.UserContext(), identity.UserID, entry); err != nil {
		return s.fail(c, err)
	}
	session.MarkSaved()
	s.logger.Info("session saved", "session", session.ID, "user", identity.UserID)
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (s *Server) generatePoints(c *fiber.Ctx) error {
	if _, err := s.requireIdentity(c); err != nil {
		return s.fail(c, err)
	}
	var settings debate.Settings
	if err := c.BodyParser(&settings); err != nil {
		return s.fail(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	points, err := s.points.Generate(c.UserContext(), settings)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"points": points})
}

// saveLibraryEntry stores a batch-mode artifact (settings plus speaking
// points) that never went through a chat session.
func (s *Server) saveLibraryEntry(c *fiber.Ctx) error {
	identity, err := s.requireIdentity(c)
	if err != nil {
		return s.fail(c, err)
	}
	var entry debate.Entry
	if err := c.BodyParser(&entry); err != nil {
		return s.fail(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}
	if strings.TrimSpace(entry.Settings.Topic) == "" {
		return s.fail(c, debate.ErrEmptyTopic)
	}
	if entry.Settings.Position != debate.For && entry.Settings.Position != debate.Against {
		return s.fail(c, debate.ErrInvalidPosition)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.store.Save(c.UserContext(), identity.UserID, entry); err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (s *Server) listLibrary(c *fiber.Ctx) error {
	identity, err := s.requireIdentity(c)
	if err != nil {
		return s.fail(c, err)
	}
	entries, err := s.store.List(c.UserContext(), identity.UserID)
	if err != nil {
		return s.fail(c, err)
	}
	if entries == nil {
		entries = []debate.Entry{}
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (s *Server) deleteLibraryEntry(c *fiber.Ctx) error {
	identity, err := s.requireIdentity(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.store.Delete(c.UserContext(), identity.UserID, c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// requireIdentity resolves the Authorization header and rejects anonymous
// callers. Debate chat never calls this; points and library always do.
func (s *Server) requireIdentity(c *fiber.Ctx) (auth.Identity, error) {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	identity, err := s.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return auth.Identity{}, err
	}
	if identity.Anonymous() {
		return auth.Identity{}, library.ErrUnauthenticated
	}
	return identity, nil
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	case errors.Is(err, errUnknownSession):
		status = fiber.StatusNotFound
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, library.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, debate.ErrEmptyTopic),
		errors.Is(err, debate.ErrInvalidPosition),
		errors.Is(err, debate.ErrInvalidSpeaker),
		errors.Is(err, debate.ErrEmptyInput),
		errors.Is(err, debate.ErrInvalidPointCount):
		status = fiber.StatusBadRequest
	case errors.Is(err, debate.ErrAlreadyStarted),
		errors.Is(err, debate.ErrNotAwaitingUser),
		errors.Is(err, debate.ErrNotStarted),
		errors.Is(err, debate.ErrSessionReset):
		status = fiber.StatusConflict
	case errors.Is(err, gateway.ErrQuotaExhausted):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, gateway.ErrRateLimited):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, gateway.ErrUnavailable),
		errors.Is(err, gateway.ErrMalformedResponse):
		status = fiber.StatusBadGateway
	}
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
