package debate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sparringlab/sparring/internal/gateway"
)

// Position is the side a party argues.
type Position string

const (
	For     Position = "for"
	Against Position = "against"
)

// Opposite returns the other side of the position axis.
func (p Position) Opposite() Position {
	if p == For {
		return Against
	}
	return For
}

// Speaker identifies who opens the debate.
type Speaker string

const (
	SpeakerAI   Speaker = "ai"
	SpeakerUser Speaker = "user"
)

// Role tags a conversation message.
type Role string

const (
	RoleAI   Role = "ai"
	RoleUser Role = "user"
)

// Mode distinguishes the two session artifacts.
type Mode string

const (
	ModeDebunk Mode = "debunk"
	ModeDebate Mode = "debate"
)

// Difficulty selects the instruction tier for speaking points.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// EvidenceLevel selects the evidence instruction tier for speaking points.
type EvidenceLevel string

const (
	EvidenceLow    EvidenceLevel = "low"
	EvidenceMedium EvidenceLevel = "medium"
	EvidenceHigh   EvidenceLevel = "high"
)

// RoundScore is the four-criterion rubric evaluation of a single user turn.
// Each component is held to [0,5]; Total carries the per-turn aggregate.
type RoundScore struct {
	Clarity          int      `json:"clarity"`
	LogicalReasoning int      `json:"logicalReasoning"`
	Relevance        int      `json:"relevance"`
	Persuasiveness   int      `json:"persuasiveness"`
	Total            int      `json:"total"`
	Strengths        []string `json:"strengths"`
	AreasToImprove   []string `json:"areasToImprove"`
}

// Message is one entry in the conversation log. The log is append-only;
// the only mutation ever applied to a past message is attaching a score
// to the most recent user turn.
type Message struct {
	ID      string      `json:"id"`
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Score   *RoundScore `json:"score,omitempty"`
}

// Evidence is a single statistic or quote attached to a speaking point.
type Evidence struct {
	Type    string `json:"type"` // "statistic" or "quote"
	Content string `json:"content"`
	Source  string `json:"source"`
}

// SpeakingPoint is a structured argument unit from the batch generator.
type SpeakingPoint struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Claim       string     `json:"claim"`
	Explanation string     `json:"explanation"`
	Evidence    []Evidence `json:"evidence,omitempty"`
}

// Settings is the immutable configuration of a session.
type Settings struct {
	Topic          string        `json:"topic"`
	Mode           Mode          `json:"mode"`
	Position       Position      `json:"position"`
	SpeakerFirst   Speaker       `json:"speakerFirst"`
	LanguageTone   LanguageTone  `json:"languageTone"`
	Difficulty     Difficulty    `json:"difficulty"`
	TimeLimit      int           `json:"timeLimit"`
	NoTimeLimit    bool          `json:"noTimeLimit"`
	NumberOfPoints int           `json:"numberOfPoints"`
	EvidenceLevel  EvidenceLevel `json:"evidenceLevel"`
}

// Validation failures, rejected before any external call.
var (
	ErrEmptyTopic      = errors.New("debate: topic must not be empty")
	ErrInvalidPosition = errors.New("debate: position must be for or against")
	ErrInvalidSpeaker  = errors.New("debate: speakerFirst must be ai or user")
)

// Turn-protocol violations.
var (
	ErrEmptyInput      = errors.New("debate: input must not be empty")
	ErrNotAwaitingUser = errors.New("debate: not awaiting user input")
	ErrAlreadyStarted  = errors.New("debate: session already started")
	ErrSessionReset    = errors.New("debate: session was reset while a request was in flight")
)

// Validate checks the fields every session needs. Speaking-point fields
// are checked separately by the batch generator.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Topic) == "" {
		return ErrEmptyTopic
	}
	if s.Position != For && s.Position != Against {
		return ErrInvalidPosition
	}
	if s.SpeakerFirst != SpeakerAI && s.SpeakerFirst != SpeakerUser {
		return ErrInvalidSpeaker
	}
	return nil
}

// AIPosition returns the side argued by the AI. When the AI opens it takes
// the configured position and the user is flipped to the opposite; when
// the user opens the configured position belongs to the user. The flip on
// AI-first is intentional and mirrors the product behavior.
func (s Settings) AIPosition() Position {
	if s.SpeakerFirst == SpeakerAI {
		return s.Position
	}
	return s.Position.Opposite()
}

// UserPosition returns the side argued by the human.
func (s Settings) UserPosition() Position {
	if s.SpeakerFirst == SpeakerAI {
		return s.Position.Opposite()
	}
	return s.Position
}

// Entry is a completed session materialized for persistence: either a
// speaking-points artifact or a full conversation with aggregate score.
type Entry struct {
	ID                  string          `json:"id"`
	CreatedAt           time.Time       `json:"createdAt"`
	Settings            Settings        `json:"settings"`
	SpeakingPoints      []SpeakingPoint `json:"speakingPoints,omitempty"`
	ConversationHistory []Message       `json:"conversationHistory,omitempty"`
	TotalScore          *int            `json:"totalScore,omitempty"`
}

// TotalScore sums the per-turn totals of every scored user message.
func TotalScore(history []Message) int {
	sum := 0
	for _, m := range history {
		if m.Role == RoleUser && m.Score != nil {
			sum += m.Score.Total
		}
	}
	return sum
}

// ChatClient interface so the gateway client can be mocked.
type ChatClient interface {
	ChatCompletion(ctx context.Context, req gateway.ChatRequest) (*gateway.ChatResponse, error)
}
