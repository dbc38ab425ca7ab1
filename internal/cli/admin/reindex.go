package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/corpus"
	"github.com/inkwell-ai/inkwell/internal/database"
	"github.com/inkwell-ai/inkwell/internal/openai"
	"github.com/inkwell-ai/inkwell/internal/pipeline"
	"github.com/inkwell-ai/inkwell/internal/repository"
	"github.com/inkwell-ai/inkwell/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	openaiapi "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

func ReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Vectorize the corpus into the store",
		Long:  "Load the corpus, embed every new or changed entry, and upsert the vectors into the store",
		RunE:  runReindex,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().String("corpus", "", "Corpus file path (overrides configuration)")

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")
	corpusFlag, _ := cmd.Flags().GetString("corpus")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasOpenAI() {
		return fmt.Errorf("INKWELL_OPENAI_API_KEY is required")
	}

	pool, err := getDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	var source service.CorpusSource
	switch {
	case corpusFlag != "":
		source = corpus.NewFileSource(corpusFlag)
	case cfg.HasS3():
		source, err = corpus.NewS3Source(ctx, corpus.S3SourceConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3CorpusKey,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 corpus source: %w", err)
		}
	default:
		source = corpus.NewFileSource(cfg.CorpusPath)
	}

	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	entryRepo := repository.NewEntryRepository(pool, cfg.EmbeddingDimensions)
	vectorizer := pipeline.NewVectorizer(embeddingClient, entryRepo, pipeline.Config{
		Concurrency:   cfg.PipelineConcurrency,
		RatePerSecond: cfg.EmbedRatePerSecond,
	})

	result, err := service.NewReindexService(source, vectorizer).Reindex(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	if outputFormat == "json" {
		errs := make([]map[string]interface{}, len(result.Errors))
		for i, itemErr := range result.Errors {
			errs[i] = map[string]interface{}{
				"entry_id": itemErr.EntryID,
				"stage":    itemErr.Stage,
				"message":  itemErr.Message,
			}
		}
		data := map[string]interface{}{
			"processed_count":    result.ProcessedCount,
			"skipped_count":      result.SkippedCount,
			"processing_time_ms": result.ProcessingTime.Milliseconds(),
			"errors":             errs,
		}
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("Reindex complete: %d processed, %d skipped in %s\n",
			result.ProcessedCount, result.SkippedCount, result.ProcessingTime.Round(time.Millisecond))
		for _, itemErr := range result.Errors {
			fmt.Printf("  failed %s (%s): %s\n", itemErr.EntryID, itemErr.Stage, itemErr.Message)
		}
	}

	return nil
}

func getDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}
