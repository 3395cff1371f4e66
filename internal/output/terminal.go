// Package output formats debate artifacts for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sparringlab/sparring/internal/debate"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// Colorize wraps s with an ANSI color code and reset.
func Colorize(color, s string) string { return color + s + ansiReset }

// Bold wraps s with ANSI bold and reset.
func Bold(s string) string { return ansiBold + s + ansiReset }

// PrintPoints writes a numbered speaking-points listing.
func PrintPoints(w io.Writer, topic string, position debate.Position, points []debate.SpeakingPoint) {
	fmt.Fprintf(w, "%s %s\n", Bold("Topic:"), topic)
	fmt.Fprintf(w, "%s %s\n\n", Bold("Position:"), Colorize(ansiCyan, strings.ToUpper(string(position))))
	for i, p := range points {
		fmt.Fprintf(w, "%s %s\n", Colorize(ansiYellow, fmt.Sprintf("%d.", i+1)), Bold(p.Title))
		fmt.Fprintf(w, "   %s\n", p.Claim)
		fmt.Fprintf(w, "   %s\n", p.Explanation)
		for _, e := range p.Evidence {
			fmt.Fprintf(w, "   %s %s (%s)\n", Colorize(ansiGreen, "*"), e.Content, e.Source)
		}
		fmt.Fprintln(w)
	}
}

// PrintScore writes a round-score summary. A nil score means the round
// went unscored.
func PrintScore(w io.Writer, score *debate.RoundScore) {
	if score == nil {
		fmt.Fprintln(w, Colorize(ansiYellow, "Round not scored."))
		return
	}
	color := ansiRed
	if score.Total >= 10 {
		color = ansiGreen
	}
	fmt.Fprintf(w, "%s %s\n", Bold("Score:"), Colorize(color, fmt.Sprintf("%d/20", score.Total)))
	fmt.Fprintf(w, "  Clarity %d | Logic %d | Relevance %d | Persuasiveness %d\n",
		score.Clarity, score.LogicalReasoning, score.Relevance, score.Persuasiveness)
	for _, s := range score.Strengths {
		fmt.Fprintf(w, "  %s %s\n", Colorize(ansiGreen, "+"), s)
	}
	for _, a := range score.AreasToImprove {
		fmt.Fprintf(w, "  %s %s\n", Colorize(ansiRed, "-"), a)
	}
}

// PrintTranscript writes the conversation with per-round user scores.
func PrintTranscript(w io.Writer, messages []debate.Message) {
	for _, m := range messages {
		speaker := "You"
		color := ansiCyan
		if m.Role == debate.RoleAI {
			speaker = "Opponent"
			color = ansiYellow
		}
		fmt.Fprintf(w, "%s %s\n", Colorize(color, Bold(speaker+":")), m.Content)
		if m.Score != nil {
			PrintScore(w, m.Score)
		}
		fmt.Fprintln(w)
	}
}
