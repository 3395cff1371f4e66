package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sparringlab/sparring/internal/gateway"
)

const (
	replyTemperature = 0.8
	replyMaxTokens   = 400
)

// State is the lifecycle position of a session.
type State string

const (
	StateNotStarted   State = "not_started"
	StateAwaitingUser State = "awaiting_user"
	StateAwaitingAI   State = "awaiting_ai"
	StateSaved        State = "saved"
)

// ErrNotStarted is returned when an operation needs an in-progress session.
var ErrNotStarted = errors.New("debate: session not started")

// Session is the turn controller for one interactive debate. All state
// transitions are serialized; at most one reply request (with its paired
// scoring sub-request) is in flight at a time. A reset while a request is
// outstanding bumps the generation counter so the late result is dropped
// without touching state.
type Session struct {
	ID       string
	settings Settings
	llm      ChatClient
	scorer   *Scorer
	model    string
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	messages   []Message
	round      int
	generation uint64
}

// NewSession validates the settings and creates a session in NotStarted.
func NewSession(settings Settings, llm ChatClient, scorer *Scorer, model string, logger *slog.Logger) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		settings: settings,
		llm:      llm,
		scorer:   scorer,
		model:    model,
		logger:   logger.With("session", id),
		state:    StateNotStarted,
	}, nil
}

// TurnResult is the outcome of one completed user round: the user's
// message (scored when the judge call succeeded) and the AI's reply.
type TurnResult struct {
	UserMessage Message `json:"userMessage"`
	Reply       Message `json:"reply"`
}

// Start performs the NotStarted -> InProgress transition. When the AI
// opens, it issues the opening request (no scoring) and returns the first
// message; when the user opens, no model call is made and the returned
// message is nil. Round becomes 1 either way.
func (s *Session) Start(ctx context.Context) (*Message, error) {
	s.mu.Lock()
	if s.state != StateNotStarted {
		s.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	if s.settings.SpeakerFirst == SpeakerUser {
		s.round = 1
		s.state = StateAwaitingUser
		s.mu.Unlock()
		return nil, nil
	}
	gen := s.generation
	s.state = StateAwaitingAI
	s.mu.Unlock()

	resp, err := s.llm.ChatCompletion(ctx, gateway.ChatRequest{
		Model:       s.model,
		Messages:    responseMessages(s.settings, nil, true),
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil, ErrSessionReset
	}
	if err != nil {
		s.state = StateNotStarted
		s.logger.Error("opening request failed", "request", "reply", "round", 0, "error", err)
		return nil, err
	}
	content := resp.Content()
	if content == "" {
		s.state = StateNotStarted
		return nil, fmt.Errorf("debate: %w: empty reply", gateway.ErrMalformedResponse)
	}

	msg := Message{ID: uuid.NewString(), Role: RoleAI, Content: content}
	s.messages = append(s.messages, msg)
	s.round = 1
	s.state = StateAwaitingUser
	return &msg, nil
}

// Submit runs one user round: it requests the AI's next argument for the
// updated history and, in the same round, asks the judge to score the
// just-submitted user turn against the context before the new reply. The
// scored user message and the AI reply are appended together; the round
// counter then increments. A reply failure leaves the session exactly as
// it was so the same input can be retried; a scoring failure is soft and
// only leaves the user message unscored.
func (s *Session) Submit(ctx context.Context, input string) (*TurnResult, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state != StateAwaitingUser {
		s.mu.Unlock()
		return nil, ErrNotAwaitingUser
	}
	gen := s.generation
	round := s.round
	history := make([]Message, len(s.messages))
	copy(history, s.messages)
	s.state = StateAwaitingAI
	s.mu.Unlock()

	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Content: trimmed}
	withUser := append(history, userMsg)

	resp, err := s.llm.ChatCompletion(ctx, gateway.ChatRequest{
		Model:       s.model,
		Messages:    responseMessages(s.settings, withUser, false),
		MaxTokens:   replyMaxTokens,
		Temperature: replyTemperature,
	})
	if err != nil {
		s.logger.Error("reply request failed", "request", "reply", "round", round, "error", err)
		return nil, s.rollback(gen, err)
	}
	content := resp.Content()
	if content == "" {
		err := fmt.Errorf("debate: %w: empty reply", gateway.ErrMalformedResponse)
		return nil, s.rollback(gen, err)
	}

	// Scoring context is the history before the AI's new reply.
	score, scoreErr := s.scorer.Score(ctx, s.settings, trimmed, withUser)
	if scoreErr != nil {
		s.logger.Warn("scoring failed, leaving turn unscored", "request", "score", "round", round, "error", scoreErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil, ErrSessionReset
	}
	userMsg.Score = score
	reply := Message{ID: uuid.NewString(), Role: RoleAI, Content: content}
	s.messages = append(s.messages, userMsg, reply)
	s.round++
	s.state = StateAwaitingUser
	return &TurnResult{UserMessage: userMsg, Reply: reply}, nil
}

// rollback restores AwaitingUser after a failed round, unless the session
// was reset while the request was in flight.
func (s *Session) rollback(gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return ErrSessionReset
	}
	s.state = StateAwaitingUser
	return err
}

// Reset discards the conversation and returns to NotStarted. The static
// configuration is untouched; any in-flight request's eventual result is
// discarded on arrival.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.messages = nil
	s.round = 0
	s.state = StateNotStarted
}

// Entry materializes the session for persistence. The aggregate score is
// the sum of every scored user turn's total, computed here at save time
// from the accumulated history.
func (s *Session) Entry() (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNotStarted {
		return Entry{}, ErrNotStarted
	}
	history := make([]Message, len(s.messages))
	copy(history, s.messages)
	total := TotalScore(history)
	return Entry{
		ID:                  uuid.NewString(),
		CreatedAt:           time.Now().UTC(),
		Settings:            s.settings,
		ConversationHistory: history,
		TotalScore:          &total,
	}, nil
}

// MarkSaved records that the session was materialized into the library.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateSaved
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Round returns the current round number.
func (s *Session) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Messages returns a copy of the conversation log.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Settings returns the session's immutable configuration.
func (s *Session) Settings() Settings {
	return s.settings
}
