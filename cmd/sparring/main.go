package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "sparring",
		Short: "Debate practice against an AI opponent",
		Long:  "Runs the sparring service: turn-based debate chat with per-round scoring, batch speaking-point generation, and a saved-debate library.",
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newPointsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
