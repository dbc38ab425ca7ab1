package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// GenerateRequest represents the generate API request.
type GenerateRequest struct {
	Topic       string `json:"topic"`
	ContentType string `json:"content_type,omitempty"`
	Length      string `json:"length,omitempty"`
	Tone        string `json:"tone,omitempty"`
	Audience    string `json:"audience,omitempty"`
}

// SourceSummary reports one source's contribution to the generated content.
type SourceSummary struct {
	Source    string   `json:"source"`
	DataCount int      `json:"data_count"`
	Insights  []string `json:"insights,omitempty"`
}

// GenerateResponse represents the generate API response.
type GenerateResponse struct {
	GeneratedContent string                 `json:"generated_content"`
	Sources          []SourceSummary        `json:"sources"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// GenerateCmd creates the generate command.
func GenerateCmd() *cobra.Command {
	var (
		contentType string
		length      string
		tone        string
		audience    string
	)

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate content for a topic",
		Long:  "Retrieves evidence for the topic and generates grounded content.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGenerate(args[0], contentType, length, tone, audience, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&contentType, "type", "t", "", "Content type (blog, social, guide, analysis)")
	cmd.Flags().StringVarP(&length, "length", "l", "", "Content length (short, medium, long)")
	cmd.Flags().StringVar(&tone, "tone", "", "Writing tone (professional, casual, expert)")
	cmd.Flags().StringVar(&audience, "audience", "", "Target audience")

	return cmd
}

func runGenerate(topic, contentType, length, tone, audience string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	req := GenerateRequest{
		Topic:       topic,
		ContentType: contentType,
		Length:      length,
		Tone:        tone,
		Audience:    audience,
	}

	resp, err := api.Post("/generate", req)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(resp.Data, &genResp); err != nil {
		return fmt.Errorf("failed to parse generation response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(genResp, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Println(genResp.GeneratedContent)
		if len(genResp.Sources) > 0 {
			fmt.Printf("\n%s\n", strings.Repeat("-", 40))
			fmt.Println("Sources:")
			for _, src := range genResp.Sources {
				fmt.Printf("  %s: %d items\n", src.Source, src.DataCount)
			}
		}
	}

	return nil
}
