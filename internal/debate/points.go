package debate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sparringlab/sparring/internal/gateway"
)

// ErrInvalidPointCount is returned when the requested batch size is not positive.
var ErrInvalidPointCount = errors.New("debate: numberOfPoints must be positive")

// PointsGenerator produces a batch of speaking points in a single
// schema-constrained extraction call. No state machine, no scoring.
type PointsGenerator struct {
	llm   ChatClient
	model string
}

// NewPointsGenerator creates a generator using the given chat client and model ID.
func NewPointsGenerator(llm ChatClient, model string) *PointsGenerator {
	return &PointsGenerator{llm: llm, model: model}
}

type pointsPayload struct {
	SpeakingPoints []struct {
		Title       string     `json:"title"`
		Claim       string     `json:"claim"`
		Explanation string     `json:"explanation"`
		Evidence    []Evidence `json:"evidence"`
	} `json:"speakingPoints"`
}

// Generate requests the configured number of points arguing the requested
// position and attaches fresh identifiers to each.
func (g *PointsGenerator) Generate(ctx context.Context, s Settings) ([]SpeakingPoint, error) {
	if strings.TrimSpace(s.Topic) == "" {
		return nil, ErrEmptyTopic
	}
	if s.Position != For && s.Position != Against {
		return nil, ErrInvalidPosition
	}
	if s.NumberOfPoints <= 0 {
		return nil, ErrInvalidPointCount
	}

	tool := speakingPointsTool()
	resp, err := g.llm.ChatCompletion(ctx, gateway.ChatRequest{
		Model: g.model,
		Messages: []gateway.Message{
			{Role: "system", Content: pointsSystemPrompt(s)},
			{Role: "user", Content: pointsUserPrompt(s)},
		},
		Tools:      []gateway.Tool{tool},
		ToolChoice: &gateway.ToolChoice{Type: "function", Function: gateway.ToolChoiceName{Name: tool.Function.Name}},
	})
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}

	call := resp.FirstToolCall()
	if call == nil || call.Function.Arguments == "" {
		return nil, fmt.Errorf("points: %w: missing tool call", gateway.ErrMalformedResponse)
	}

	var payload pointsPayload
	if err := json.Unmarshal([]byte(call.Function.Arguments), &payload); err != nil {
		return nil, fmt.Errorf("points: %w: %v", gateway.ErrMalformedResponse, err)
	}

	points := make([]SpeakingPoint, 0, len(payload.SpeakingPoints))
	for _, p := range payload.SpeakingPoints {
		points = append(points, SpeakingPoint{
			ID:          uuid.NewString(),
			Title:       p.Title,
			Claim:       p.Claim,
			Explanation: p.Explanation,
			Evidence:    p.Evidence,
		})
	}
	return points, nil
}
