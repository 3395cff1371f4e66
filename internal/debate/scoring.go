package debate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sparringlab/sparring/internal/gateway"
)

const (
	scoreTemperature = 0.3
	scoreMaxTokens   = 300
)

// Scorer issues the secondary judge request for a single user turn and
// parses the rubric result out of the model's reply.
type Scorer struct {
	llm   ChatClient
	model string
}

// NewScorer creates a Scorer using the given chat client and model ID.
func NewScorer(llm ChatClient, model string) *Scorer {
	return &Scorer{llm: llm, model: model}
}

// Score evaluates the user's latest turn. History must already contain the
// turn being scored. A nil score with a non-nil error means "no score";
// callers treat that as a soft failure and never substitute a zero score.
func (sc *Scorer) Score(ctx context.Context, s Settings, userMessage string, history []Message) (*RoundScore, error) {
	resp, err := sc.llm.ChatCompletion(ctx, gateway.ChatRequest{
		Model:       sc.model,
		Messages:    []gateway.Message{{Role: "user", Content: scorePrompt(s, userMessage, history)}},
		MaxTokens:   scoreMaxTokens,
		Temperature: scoreTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	score, ok := parseScoreJSON(resp.Content())
	if !ok {
		return nil, fmt.Errorf("scoring: %w: no parseable rubric object", gateway.ErrMalformedResponse)
	}
	return score, nil
}

// rawScore is the wire shape of the judge reply. Numbers come in as floats
// since the model is free to emit them either way; missing fields decode
// to zero.
type rawScore struct {
	Clarity          float64  `json:"clarity"`
	LogicalReasoning float64  `json:"logicalReasoning"`
	Relevance        float64  `json:"relevance"`
	Persuasiveness   float64  `json:"persuasiveness"`
	Strengths        []string `json:"strengths"`
	AreasToImprove   []string `json:"areasToImprove"`
}

// parseScoreJSON extracts and parses a RoundScore from raw model output,
// tolerating surrounding prose. The stored components are clamped to
// [0,5]; Total is the sum of the raw pre-clamp values. Do not reconcile
// the mismatch, saved debates depend on it.
func parseScoreJSON(raw string) (*RoundScore, bool) {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return nil, false
	}

	var parsed rawScore
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil, false
	}

	score := &RoundScore{
		Clarity:          clampCriterion(parsed.Clarity),
		LogicalReasoning: clampCriterion(parsed.LogicalReasoning),
		Relevance:        clampCriterion(parsed.Relevance),
		Persuasiveness:   clampCriterion(parsed.Persuasiveness),
		Total:            int(parsed.Clarity + parsed.LogicalReasoning + parsed.Relevance + parsed.Persuasiveness),
		Strengths:        parsed.Strengths,
		AreasToImprove:   parsed.AreasToImprove,
	}
	if score.Strengths == nil {
		score.Strengths = []string{}
	}
	if score.AreasToImprove == nil {
		score.AreasToImprove = []string{}
	}
	return score, true
}

func clampCriterion(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

// firstJSONObject returns the first balanced top-level JSON object in s,
// respecting string literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
