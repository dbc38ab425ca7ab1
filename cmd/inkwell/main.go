package main

import (
	"fmt"
	"os"

	"github.com/inkwell-ai/inkwell/internal/cli"
	"github.com/inkwell-ai/inkwell/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "inkwell",
		Short: "Inkwell CLI - Retrieval-grounded content generation",
		Long: `Inkwell CLI provides commands to search the knowledge collection
and generate grounded content.

Environment variables:
  INKWELL_API_KEY   API key for authentication
  INKWELL_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.GenerateCmd())
	rootCmd.AddCommand(client.ReindexCmd())
	rootCmd.AddCommand(client.StatsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
