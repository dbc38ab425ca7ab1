package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/repository"
	"github.com/spf13/cobra"
)

func StatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show vector store statistics",
		Long:  "Show entry counts for the vector store, broken down by category and cluster",
		RunE:  runStats,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := getDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	entryRepo := repository.NewEntryRepository(pool, cfg.EmbeddingDimensions)
	stats, err := entryRepo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	if outputFormat == "json" {
		data := map[string]interface{}{
			"total_count":       stats.TotalCount,
			"count_by_category": stats.CountByCategory,
			"count_by_cluster":  stats.CountByCluster,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Total entries: %d\n", stats.TotalCount)
		printBreakdown("By category", stats.CountByCategory)
		printBreakdown("By cluster", stats.CountByCluster)
	}

	return nil
}

func printBreakdown(label string, counts map[string]int) {
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
