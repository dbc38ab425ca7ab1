package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchRequest represents the search API request.
type SearchRequest struct {
	Query            string  `json:"query"`
	Threshold        float64 `json:"threshold,omitempty"`
	Count            int     `json:"count,omitempty"`
	Category         string  `json:"category,omitempty"`
	IncludeDeepLinks bool    `json:"include_deep_links,omitempty"`
}

// SearchResult represents a search result.
type SearchResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Snippet  string  `json:"snippet,omitempty"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
	Link     string  `json:"link,omitempty"`
}

// SearchResponse represents the search API response.
type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	ResultCount int            `json:"result_count"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		threshold float64
		count     int
		category  string
		links     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge collection",
		Long:  "Searches the knowledge collection by vector similarity.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSearch(args[0], threshold, count, category, links, outputJSON)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum similarity score (0 uses the server default)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of results (0 uses the server default)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	cmd.Flags().BoolVar(&links, "links", false, "Include deep links in results")

	return cmd
}

func runSearch(query string, threshold float64, count int, category string, links, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	req := SearchRequest{
		Query:            query,
		Threshold:        threshold,
		Count:            count,
		Category:         category,
		IncludeDeepLinks: links,
	}

	resp, err := api.Post("/search", req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(resp.Data, &searchResp); err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(searchResp, "", "  ")
		fmt.Println(string(output))
	} else {
		if len(searchResp.Results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Printf("Found %d results:\n\n", searchResp.ResultCount)
		for i, result := range searchResp.Results {
			fmt.Printf("%d. %s (%.2f)\n", i+1, result.Title, result.Score)
			if result.Snippet != "" {
				fmt.Printf("   %s\n", result.Snippet)
			}
			if result.Category != "" {
				fmt.Printf("   Category: %s\n", result.Category)
			}
			if result.Link != "" {
				fmt.Printf("   Link: %s\n", result.Link)
			}
			fmt.Printf("   ID: %s\n", result.ID)
			if i < len(searchResp.Results)-1 {
				fmt.Println(strings.Repeat("-", 40))
			}
		}
	}

	return nil
}
