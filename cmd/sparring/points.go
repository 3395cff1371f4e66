package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sparringlab/sparring/internal/debate"
	"github.com/sparringlab/sparring/internal/gateway"
	"github.com/sparringlab/sparring/internal/output"
)

func newPointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Generate speaking points for a topic",
		RunE:  runPoints,
	}
	cmd.Flags().String("topic", "", "Debate topic (required)")
	cmd.Flags().String("position", "for", "Position to argue: for or against")
	cmd.Flags().Int("count", 3, "Number of points to generate")
	cmd.Flags().String("difficulty", "medium", "Difficulty: easy, medium, or hard")
	cmd.Flags().String("evidence", "medium", "Evidence level: low, medium, or high")
	cmd.Flags().String("tone", "adult", "Language tone")
	cmd.Flags().Int("time", 5, "Speech time budget in minutes (0 for none)")
	cmd.Flags().String("api-key", "", "Gateway API key (overrides GATEWAY_API_KEY env var)")
	cmd.Flags().String("model", "google/gemini-2.5-flash", "Model ID")
	cmd.MarkFlagRequired("topic")
	return cmd
}

func runPoints(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	topic, _ := cmd.Flags().GetString("topic")
	position, _ := cmd.Flags().GetString("position")
	count, _ := cmd.Flags().GetInt("count")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	evidence, _ := cmd.Flags().GetString("evidence")
	tone, _ := cmd.Flags().GetString("tone")
	minutes, _ := cmd.Flags().GetInt("time")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")

	if apiKey == "" {
		apiKey = os.Getenv("GATEWAY_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key required: set --api-key flag or GATEWAY_API_KEY env var")
	}

	settings := debate.Settings{
		Topic:          topic,
		Mode:           debate.ModeDebate,
		Position:       debate.Position(position),
		SpeakerFirst:   debate.SpeakerUser,
		LanguageTone:   debate.LanguageTone(tone),
		Difficulty:     debate.Difficulty(difficulty),
		TimeLimit:      minutes,
		NoTimeLimit:    minutes <= 0,
		NumberOfPoints: count,
		EvidenceLevel:  debate.EvidenceLevel(evidence),
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := gateway.NewClient(apiKey)
	if baseURL := os.Getenv("GATEWAY_BASE_URL"); baseURL != "" {
		client = gateway.NewClientWithBaseURL(apiKey, baseURL)
	}

	generator := debate.NewPointsGenerator(client, model)
	points, err := generator.Generate(ctx, settings)
	if err != nil {
		return fmt.Errorf("generating points: %w", err)
	}

	output.PrintPoints(os.Stdout, topic, settings.Position, points)
	return nil
}
