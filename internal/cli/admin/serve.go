package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/inkwell-ai/inkwell/internal/api/handlers"
	"github.com/inkwell-ai/inkwell/internal/config"
	"github.com/inkwell-ai/inkwell/internal/corpus"
	"github.com/inkwell-ai/inkwell/internal/database"
	"github.com/inkwell-ai/inkwell/internal/jobs"
	"github.com/inkwell-ai/inkwell/internal/openai"
	"github.com/inkwell-ai/inkwell/internal/pipeline"
	"github.com/inkwell-ai/inkwell/internal/rag"
	"github.com/inkwell-ai/inkwell/internal/repository"
	"github.com/inkwell-ai/inkwell/internal/server"
	"github.com/inkwell-ai/inkwell/internal/service"
	"github.com/inkwell-ai/inkwell/internal/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"
	openaiapi "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the inkwell retrieval and generation server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("INKWELL_OPENAI_API_KEY is required")
	}

	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      openaiapi.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	completionClient := openai.NewCompletionClient(cfg.OpenAIAPIKey, cfg.ChatModel)

	tripleIndex, err := rag.LoadTripleIndex(cfg.TriplesPath)
	if err != nil {
		return fmt.Errorf("failed to load triple index: %w", err)
	}
	insightList, err := rag.LoadInsightList(cfg.InsightsPath)
	if err != nil {
		return fmt.Errorf("failed to load insight list: %w", err)
	}
	log.Printf("structured backends loaded (%d triples, %d insights)", tripleIndex.Len(), insightList.Len())

	var corpusSource service.CorpusSource
	if cfg.HasS3() {
		s3Source, err := corpus.NewS3Source(ctx, corpus.S3SourceConfig{
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
		corpusSource = s3Source
		log.Printf("corpus source: s3 bucket '%s'", cfg.S3Bucket)
	} else {
		corpusSource = corpus.NewFileSource(cfg.CorpusPath)
		log.Printf("corpus source: file '%s'", cfg.CorpusPath)
	}

	entryRepo := repository.NewEntryRepository(pool, cfg.EmbeddingDimensions)

	vectorizer := pipeline.NewVectorizer(embeddingClient, entryRepo, pipeline.Config{
		Concurrency:   cfg.PipelineConcurrency,
		RatePerSecond: cfg.EmbedRatePerSecond,
	})

	retrievalCfg := service.RetrievalConfig{
		Threshold:      cfg.SearchThreshold,
		TopK:           cfg.SearchTopK,
		EvidenceBudget: cfg.EvidenceBudget,
		SourceTimeout:  cfg.SourceTimeout,
	}

	reindexSvc := service.NewReindexService(corpusSource, vectorizer)
	searchSvc := service.NewSearchService(embeddingClient, entryRepo, retrievalCfg)
	retrievalSvc := service.NewRetrievalService(embeddingClient, entryRepo, tripleIndex, insightList, retrievalCfg)
	generationSvc := service.NewGenerationService(retrievalSvc, completionClient)

	var reindexWorker *jobs.Worker
	if cfg.ReindexInterval > 0 {
		processor := jobs.NewReindexWorker(reindexSvc)
		reindexWorker = jobs.NewWorker(processor, cfg.ReindexInterval)
		go reindexWorker.Start(ctx)
		log.Printf("reindex worker started (interval %s)", cfg.ReindexInterval)
	}

	router := server.NewRouter(server.RouterConfig{
		APIKey:            cfg.APIKey,
		RetrievalHandler:  handlers.NewRetrievalHandler(searchSvc, reindexSvc, entryRepo),
		GenerationHandler: handlers.NewGenerationHandler(generationSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if reindexWorker != nil {
		reindexWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
