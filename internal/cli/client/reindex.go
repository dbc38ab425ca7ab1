package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ReindexResponse represents the reindex API response.
type ReindexResponse struct {
	ProcessedCount   int      `json:"processed_count"`
	SkippedCount     int      `json:"skipped_count"`
	ProcessingTimeMS int64    `json:"processing_time_ms"`
	ErrorsCount      int      `json:"errors_count"`
	Errors           []string `json:"errors,omitempty"`
}

// ReindexCmd creates the reindex command.
func ReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Trigger a corpus reindex on the server",
		Long:  "Asks the server to reload the corpus and vectorize every new or changed entry.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runReindex(outputJSON)
		},
	}

	return cmd
}

func runReindex(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post("/reindex", nil)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	var reindexResp ReindexResponse
	if err := json.Unmarshal(resp.Data, &reindexResp); err != nil {
		return fmt.Errorf("failed to parse reindex response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(reindexResp, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Reindex complete: %d processed, %d skipped in %dms\n",
			reindexResp.ProcessedCount, reindexResp.SkippedCount, reindexResp.ProcessingTimeMS)
		if reindexResp.ErrorsCount > 0 {
			fmt.Printf("%d entries failed:\n", reindexResp.ErrorsCount)
			for _, msg := range reindexResp.Errors {
				fmt.Printf("  %s\n", msg)
			}
		}
	}

	return nil
}
