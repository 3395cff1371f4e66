// Package library persists completed debate sessions. The backing store
// is a Supabase table; listings go through a pluggable cache so repeated
// library views do not hit the database.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sparringlab/sparring/internal/debate"
)

// Common errors for library operations.
var (
	ErrInvalidConfig      = errors.New("library: invalid configuration")
	ErrInvalidCacheDriver = errors.New("library: invalid cache driver")
	ErrUnauthenticated    = errors.New("library: a signed-in user is required")
)

// Store persists and retrieves debate entries. Entries are created once at
// save time, immutable thereafter, and deleted wholesale.
type Store interface {
	// Save inserts the entry for the given user.
	Save(ctx context.Context, userID string, entry debate.Entry) error

	// List returns the user's entries, most recent first.
	List(ctx context.Context, userID string) ([]debate.Entry, error)

	// Delete removes one entry owned by the user.
	Delete(ctx context.Context, userID, entryID string) error
}

// row is the saved_debates table shape.
type row struct {
	ID                  string          `json:"id,omitempty"`
	UserID              string          `json:"user_id"`
	Topic               string          `json:"topic"`
	Mode                string          `json:"mode"`
	Position            string          `json:"position"`
	Difficulty          string          `json:"difficulty"`
	LanguageTone        string          `json:"language_tone"`
	TimeLimit           int             `json:"time_limit"`
	NoTimeLimit         bool            `json:"no_time_limit"`
	NumberOfPoints      int             `json:"number_of_points"`
	EvidenceLevel       string          `json:"evidence_level"`
	SpeakingPoints      json.RawMessage `json:"speaking_points,omitempty"`
	ConversationHistory json.RawMessage `json:"conversation_history,omitempty"`
	TotalScore          *int            `json:"total_score,omitempty"`
	CreatedAt           time.Time       `json:"created_at,omitempty"`
}

func rowFromEntry(userID string, e debate.Entry) (row, error) {
	r := row{
		UserID:         userID,
		Topic:          e.Settings.Topic,
		Mode:           string(e.Settings.Mode),
		Position:       string(e.Settings.Position),
		Difficulty:     string(e.Settings.Difficulty),
		LanguageTone:   string(e.Settings.LanguageTone),
		TimeLimit:      e.Settings.TimeLimit,
		NoTimeLimit:    e.Settings.NoTimeLimit,
		NumberOfPoints: e.Settings.NumberOfPoints,
		EvidenceLevel:  string(e.Settings.EvidenceLevel),
		TotalScore:     e.TotalScore,
	}
	if e.SpeakingPoints != nil {
		b, err := json.Marshal(e.SpeakingPoints)
		if err != nil {
			return row{}, fmt.Errorf("library: encoding speaking points: %w", err)
		}
		r.SpeakingPoints = b
	}
	if e.ConversationHistory != nil {
		b, err := json.Marshal(e.ConversationHistory)
		if err != nil {
			return row{}, fmt.Errorf("library: encoding conversation: %w", err)
		}
		r.ConversationHistory = b
	}
	return r, nil
}

func (r row) toEntry() (debate.Entry, error) {
	e := debate.Entry{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Settings: debate.Settings{
			Topic:          r.Topic,
			Mode:           debate.Mode(r.Mode),
			Position:       debate.Position(r.Position),
			Difficulty:     debate.Difficulty(r.Difficulty),
			LanguageTone:   debate.LanguageTone(r.LanguageTone),
			TimeLimit:      r.TimeLimit,
			NoTimeLimit:    r.NoTimeLimit,
			NumberOfPoints: r.NumberOfPoints,
			EvidenceLevel:  debate.EvidenceLevel(r.EvidenceLevel),
		},
		TotalScore: r.TotalScore,
	}
	if len(r.SpeakingPoints) > 0 && string(r.SpeakingPoints) != "null" {
		if err := json.Unmarshal(r.SpeakingPoints, &e.SpeakingPoints); err != nil {
			return debate.Entry{}, fmt.Errorf("library: decoding speaking points: %w", err)
		}
	}
	if len(r.ConversationHistory) > 0 && string(r.ConversationHistory) != "null" {
		if err := json.Unmarshal(r.ConversationHistory, &e.ConversationHistory); err != nil {
			return debate.Entry{}, fmt.Errorf("library: decoding conversation: %w", err)
		}
	}
	return e, nil
}
