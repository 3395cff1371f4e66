package debate

import (
	"fmt"
	"strings"

	"github.com/sparringlab/sparring/internal/gateway"
)

// scoreContextWindow is how many trailing messages accompany a score request.
const scoreContextWindow = 4

func positionFraming(p Position) string {
	if p == For {
		return "IN FAVOR OF"
	}
	return "AGAINST"
}

func debateSystemPrompt(s Settings, firstMessage bool) string {
	aiPos := s.AIPosition()
	userPos := s.UserPosition()

	var b strings.Builder
	b.WriteString("You are an intelligent debate partner engaging in a real-time conversational debate.\n\n")
	fmt.Fprintf(&b, "DEBATE SETUP:\n- Topic: %q\n", s.Topic)
	fmt.Fprintf(&b, "- Your position: %s (you are arguing %s the topic)\n", strings.ToUpper(string(aiPos)), positionFraming(aiPos))
	fmt.Fprintf(&b, "- User's position: %s\n", strings.ToUpper(string(userPos)))
	fmt.Fprintf(&b, "- Language Style: %s\n", s.LanguageTone.Directive())
	b.WriteString(`
DEBATE RULES:
1. Present ONE clear argument per response
2. Respond DIRECTLY to the opponent's previous point - acknowledge before countering
3. Do NOT repeat arguments already made unless rebutting
4. Be persuasive but respectful - this is a friendly intellectual exchange
5. Use rhetorical questions, analogies, and examples when appropriate
6. Sometimes concede minor points to appear reasonable while holding your main position
`)
	if firstMessage {
		fmt.Fprintf(&b, "\nThis is the opening of the debate. Make a compelling opening argument for the %s position. Be engaging and set up the conversation.\n", strings.ToUpper(string(aiPos)))
	}
	b.WriteString("\nDo NOT use bullet points or structured formats. Write naturally as you would speak in a debate.")
	return b.String()
}

// responseMessages builds the role-tagged message list for a reply request.
// AI turns map to the assistant role, user turns to the user role. When the
// AI opens, a synthetic user message tells it to begin.
func responseMessages(s Settings, history []Message, firstMessage bool) []gateway.Message {
	msgs := []gateway.Message{
		{Role: "system", Content: debateSystemPrompt(s, firstMessage)},
	}
	for _, m := range history {
		role := "user"
		if m.Role == RoleAI {
			role = "assistant"
		}
		msgs = append(msgs, gateway.Message{Role: role, Content: m.Content})
	}
	if firstMessage && s.SpeakerFirst == SpeakerAI {
		msgs = append(msgs, gateway.Message{
			Role:    "user",
			Content: "Please begin the debate with your opening argument.",
		})
	}
	return msgs
}

// scorePrompt builds the single self-contained judge instruction for one
// user turn. History should already include the turn being scored; only
// its trailing window is embedded as context.
func scorePrompt(s Settings, userMessage string, history []Message) string {
	var ctx strings.Builder
	start := len(history) - scoreContextWindow
	if start < 0 {
		start = 0
	}
	for _, m := range history[start:] {
		fmt.Fprintf(&ctx, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
	}

	return fmt.Sprintf(`You are an expert debate judge. Evaluate the following debate response.

Topic: %q
User's position: %s
Language level expected: %s

User's response to evaluate:
%q

Previous conversation context:
%s
Score this response on 4 criteria (0-5 each):
1. Clarity - How clear and well-structured is the argument?
2. Logical Reasoning - How sound is the logic and reasoning?
3. Relevance - How relevant is the response to the topic and previous points?
4. Persuasiveness - How persuasive and compelling is the argument?

You MUST respond with ONLY a valid JSON object in this exact format, no other text:
{"clarity":X,"logicalReasoning":X,"relevance":X,"persuasiveness":X,"strengths":["point1","point2"],"areasToImprove":["point1","point2"]}`,
		s.Topic, strings.ToUpper(string(s.UserPosition())), s.LanguageTone, userMessage, ctx.String())
}

func difficultyInstruction(d Difficulty) string {
	switch d {
	case DifficultyEasy:
		return "Use simple vocabulary, straightforward logic, and short explanations. Keep it beginner-friendly."
	case DifficultyHard:
		return "Use advanced vocabulary with complex, layered arguments. Include nuanced reasoning and anticipate counterarguments. Competitive debate level."
	default:
		return "Use moderate vocabulary with clear logical progression. Include some nuance. High-school debate level."
	}
}

func evidenceInstruction(e EvidenceLevel) string {
	switch e {
	case EvidenceLow:
		return "Minimal evidence. Primarily use logical reasoning. Optional single statistic or quote total."
	case EvidenceHigh:
		return "Each speaking point must include multiple statistics and/or direct quotes with explicit attribution to credible sources. Evidence must directly support the claim."
	default:
		return "Each speaking point must include at least one statistic OR one direct quote from a credible source (government agencies, academic institutions, reputable organizations, major research studies)."
	}
}

func timeInstruction(s Settings) string {
	if s.NoTimeLimit {
		return "Generate fully expanded, in-depth speaking points with deeper reasoning and elaboration."
	}
	hint := "Balance conciseness with detail."
	if s.TimeLimit <= 3 {
		hint = "Use concise phrasing."
	} else if s.TimeLimit >= 10 {
		hint = "Include expanded explanations."
	}
	return fmt.Sprintf("Speaking points must realistically fit within %d minutes of speaking time. %s", s.TimeLimit, hint)
}

func pointsSystemPrompt(s Settings) string {
	side := "negative"
	if s.Position == For {
		side = "affirmative"
	}
	return fmt.Sprintf(`You are an expert debate coach helping users practice debate skills. Generate structured, persuasive speaking points for debate topics.

CRITICAL RULES:
1. Generate arguments ONLY for the %q position
2. Never mix positions - all points must support the %s side
3. Each point must directly address the specific topic provided
4. Do NOT fabricate sources or statistics - only use well-known, verifiable facts

%s
%s
%s

Generate EXACTLY %d speaking points.`,
		strings.ToUpper(string(s.Position)), side,
		difficultyInstruction(s.Difficulty),
		evidenceInstruction(s.EvidenceLevel),
		timeInstruction(s),
		s.NumberOfPoints)
}

func pointsUserPrompt(s Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d speaking points %s the following debate topic:\n\n%q\n\n", s.NumberOfPoints, positionFraming(s.Position), s.Topic)
	b.WriteString("Each speaking point must:\n")
	b.WriteString("1. Have a clear, specific title related to this exact topic\n")
	fmt.Fprintf(&b, "2. Make a claim that directly addresses %q\n", s.Topic)
	b.WriteString("3. Provide an explanation with reasoning specific to this topic")
	if s.EvidenceLevel != EvidenceLow {
		b.WriteString("\n4. Include evidence (statistics or quotes) that directly supports the argument about this specific topic")
	}
	return b.String()
}

// speakingPointsTool is the schema-constrained extraction declaration for
// the batch generator.
func speakingPointsTool() gateway.Tool {
	return gateway.Tool{
		Type: "function",
		Function: gateway.ToolFunction{
			Name:        "generate_speaking_points",
			Description: "Generate structured debate speaking points",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"speakingPoints": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"title":       map[string]any{"type": "string", "description": "A clear, topic-specific title for this argument"},
								"claim":       map[string]any{"type": "string", "description": "The main claim or assertion being made"},
								"explanation": map[string]any{"type": "string", "description": "Detailed reasoning supporting the claim"},
								"evidence": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"type":    map[string]any{"type": "string", "enum": []string{"statistic", "quote"}},
											"content": map[string]any{"type": "string", "description": "The statistic or quote text"},
											"source":  map[string]any{"type": "string", "description": "The credible source attribution"},
										},
										"required": []string{"type", "content", "source"},
									},
								},
							},
							"required": []string{"title", "claim", "explanation"},
						},
					},
				},
				"required": []string{"speakingPoints"},
			},
		},
	}
}
