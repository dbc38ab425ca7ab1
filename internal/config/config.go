package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	ChatModel           string `envconfig:"CHAT_MODEL"`

	// Retrieval defaults. Threshold and budget are empirical; keep them
	// tunable per deployment.
	SearchThreshold float64       `envconfig:"SEARCH_THRESHOLD" default:"0.75"`
	SearchTopK      int           `envconfig:"SEARCH_TOP_K" default:"10"`
	EvidenceBudget  int           `envconfig:"EVIDENCE_BUDGET" default:"4000"`
	SourceTimeout   time.Duration `envconfig:"SOURCE_TIMEOUT" default:"5s"`

	// Vectorization pipeline.
	PipelineConcurrency int     `envconfig:"PIPELINE_CONCURRENCY" default:"4"`
	EmbedRatePerSecond  float64 `envconfig:"EMBED_RATE_PER_SECOND" default:"5"`

	// Corpus source: local JSON file, optionally overridden by S3.
	CorpusPath   string `envconfig:"CORPUS_PATH" default:"data/corpus.json"`
	TriplesPath  string `envconfig:"TRIPLES_PATH"`
	InsightsPath string `envconfig:"INSIGHTS_PATH"`
	S3Endpoint   string `envconfig:"S3_ENDPOINT"`
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey  string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket     string `envconfig:"S3_BUCKET" default:"inkwell-corpus"`
	S3Region     string `envconfig:"S3_REGION" default:"us-east-1"`
	S3CorpusKey  string `envconfig:"S3_CORPUS_KEY" default:"corpus.json"`

	// Background reindex worker. Zero disables periodic reindexing.
	ReindexInterval time.Duration `envconfig:"REINDEX_INTERVAL" default:"0"`

	// Static API key protecting the query surface. Empty disables auth.
	APIKey string `envconfig:"API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("INKWELL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
