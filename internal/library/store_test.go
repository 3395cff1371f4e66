package library

import (
	"testing"
	"time"

	"github.com/sparringlab/sparring/internal/debate"
)

func sampleEntry() debate.Entry {
	total := 27
	return debate.Entry{
		ID:        "entry-1",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Settings: debate.Settings{
			Topic:          "School uniforms should be mandatory",
			Mode:           debate.ModeDebate,
			Position:       debate.For,
			Difficulty:     debate.DifficultyMedium,
			LanguageTone:   debate.ToneCollege,
			TimeLimit:      5,
			NumberOfPoints: 3,
			EvidenceLevel:  debate.EvidenceMedium,
		},
		SpeakingPoints: []debate.SpeakingPoint{
			{ID: "p-1", Title: "Peer pressure", Claim: "Uniforms reduce peer pressure", Explanation: "Levels visible status differences"},
		},
		ConversationHistory: []debate.Message{
			{ID: "m-1", Role: debate.RoleUser, Content: "Opening", Score: &debate.RoundScore{
				Clarity:        4,
				Relevance:      5,
				Total:          14,
				Strengths:      []string{"clear framing"},
				AreasToImprove: []string{"more evidence"},
			}},
			{ID: "m-2", Role: debate.RoleAI, Content: "Rebuttal"},
		},
		TotalScore: &total,
	}
}

func TestRowEntryRoundTrip(t *testing.T) {
	want := sampleEntry()

	r, err := rowFromEntry("user-1", want)
	if err != nil {
		t.Fatalf("rowFromEntry: %v", err)
	}
	if r.UserID != "user-1" {
		t.Errorf("expected user_id user-1, got %q", r.UserID)
	}
	if r.Topic != want.Settings.Topic {
		t.Errorf("expected topic %q, got %q", want.Settings.Topic, r.Topic)
	}
	if r.TotalScore == nil || *r.TotalScore != 27 {
		t.Errorf("expected total score 27, got %v", r.TotalScore)
	}

	// The database assigns id and created_at; carry them over as it would.
	r.ID = want.ID
	r.CreatedAt = want.CreatedAt

	got, err := r.toEntry()
	if err != nil {
		t.Fatalf("toEntry: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("expected id %q, got %q", want.ID, got.ID)
	}
	if got.Settings != want.Settings {
		t.Errorf("settings changed through mapping:\n got %+v\nwant %+v", got.Settings, want.Settings)
	}
	if len(got.SpeakingPoints) != 1 || got.SpeakingPoints[0].Claim != want.SpeakingPoints[0].Claim {
		t.Errorf("speaking points changed through mapping: %+v", got.SpeakingPoints)
	}
	if len(got.ConversationHistory) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.ConversationHistory))
	}
	score := got.ConversationHistory[0].Score
	if score == nil || score.Total != 14 || len(score.Strengths) != 1 {
		t.Errorf("score changed through mapping: %+v", score)
	}
	if got.ConversationHistory[1].Score != nil {
		t.Error("unscored message must stay unscored")
	}
}

func TestRowFromEntryOmitsMissingSections(t *testing.T) {
	e := sampleEntry()
	e.SpeakingPoints = nil
	e.ConversationHistory = nil
	e.TotalScore = nil

	r, err := rowFromEntry("user-1", e)
	if err != nil {
		t.Fatalf("rowFromEntry: %v", err)
	}
	if r.SpeakingPoints != nil {
		t.Error("expected no speaking_points payload")
	}
	if r.ConversationHistory != nil {
		t.Error("expected no conversation_history payload")
	}
	if r.TotalScore != nil {
		t.Error("expected no total_score")
	}
}

func TestToEntryToleratesNullColumns(t *testing.T) {
	r := row{
		ID:       "entry-2",
		UserID:   "user-1",
		Topic:    "t",
		Mode:     "debate",
		Position: "for",

		SpeakingPoints:      []byte("null"),
		ConversationHistory: nil,
	}
	e, err := r.toEntry()
	if err != nil {
		t.Fatalf("toEntry: %v", err)
	}
	if e.SpeakingPoints != nil || e.ConversationHistory != nil {
		t.Errorf("expected empty sections, got %+v", e)
	}
}
