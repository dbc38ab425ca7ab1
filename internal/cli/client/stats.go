package client

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// StatsResponse represents the stats API response.
type StatsResponse struct {
	TotalCount      int            `json:"total_count"`
	CountByCategory map[string]int `json:"count_by_category"`
	CountByCluster  map[string]int `json:"count_by_cluster"`
}

// StatsCmd creates the stats command.
func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		Long:  "Shows entry counts for the knowledge collection, broken down by category and cluster.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStats(outputJSON)
		},
	}

	return cmd
}

func runStats(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/stats")
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	var statsResp StatsResponse
	if err := json.Unmarshal(resp.Data, &statsResp); err != nil {
		return fmt.Errorf("failed to parse stats response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(statsResp, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Total entries: %d\n", statsResp.TotalCount)
		printCounts("By category", statsResp.CountByCategory)
		printCounts("By cluster", statsResp.CountByCluster)
	}

	return nil
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s:\n", label)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, counts[k])
	}
}
