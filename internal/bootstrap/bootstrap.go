package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/dossier/internal/config"
	"github.com/kirillkom/dossier/internal/core/ports"
	"github.com/kirillkom/dossier/internal/core/usecase"
	"github.com/kirillkom/dossier/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/dossier/internal/infrastructure/extractor/content"
	"github.com/kirillkom/dossier/internal/infrastructure/llm/extraction"
	"github.com/kirillkom/dossier/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/dossier/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/dossier/internal/infrastructure/llm/openai"
	"github.com/kirillkom/dossier/internal/infrastructure/pdf"
	"github.com/kirillkom/dossier/internal/infrastructure/queue/nats"
	"github.com/kirillkom/dossier/internal/infrastructure/repository/memory"
	"github.com/kirillkom/dossier/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/dossier/internal/infrastructure/resilience"
	"github.com/kirillkom/dossier/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/dossier/internal/seed"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Options struct {
	// Observer receives per-document outcomes; nil disables observation.
	Observer ports.ProcessingObserver
	// WithQueue connects to NATS when NATS_URL is set.
	WithQueue bool
}

type App struct {
	Config config.Config

	Collection ports.DocumentCollection
	Queue      ports.BatchQueue

	BatchUC     *usecase.BatchUseCase
	IngestUC    *usecase.IngestDocumentUseCase
	QueryUC     *usecase.QueryUseCase
	ExportUC    *usecase.ExportUseCase
	ProcedureUC *usecase.ProcedureUseCase
	AccessUC    *usecase.AccessRequestUseCase

	closers []func()
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}
	ready := false
	defer func() {
		if !ready {
			app.Close()
		}
	}()

	collection, closeCollection, err := OpenCollection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeCollection)
	app.Collection = collection

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(ResilienceConfig(cfg))

	var queue ports.BatchQueue
	if opts.WithQueue && strings.TrimSpace(cfg.NATSURL) != "" {
		q, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{ResilienceExecutor: executor})
		if err != nil {
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.closers = append(app.closers, q.Close)
		queue = q
	}
	app.Queue = queue

	client, closeClient, err := NewExtractionClient(ctx, cfg, executor)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeClient)

	pipeline := usecase.NewProcessDocumentUseCase(NewContentExtractor(cfg), client, usecase.Assembler{})
	app.BatchUC = usecase.NewBatchUseCase(pipeline, collection, opts.Observer)
	app.IngestUC = usecase.NewIngestDocumentUseCase(storage, queue, app.BatchUC)
	app.QueryUC = usecase.NewQueryUseCase(collection)
	app.ExportUC = usecase.NewExportUseCase(collection, xlsx.NewWriter())
	app.ProcedureUC = usecase.NewProcedureUseCase()
	app.AccessUC = usecase.NewAccessRequestUseCase(collection)

	slog.Info("bootstrap_complete",
		"provider", cfg.ExtractionProvider,
		"store", cfg.DocumentStore,
		"queue", queue != nil,
	)
	ready = true
	return app, nil
}

// OpenCollection opens the configured document store and seeds it when
// SEED_DOCUMENTS is set and the store is empty.
func OpenCollection(ctx context.Context, cfg config.Config) (ports.DocumentCollection, func(), error) {
	var (
		collection ports.DocumentCollection
		closeFn    = func() {}
	)
	switch strings.ToLower(strings.TrimSpace(cfg.DocumentStore)) {
	case "", StoreMemory:
		collection = memory.NewCollection()
	case StorePostgres:
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		closeFn = func() { closeDB(db) }
		repo := postgres.NewDocumentRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		collection = repo
	default:
		return nil, nil, fmt.Errorf("unknown DOCUMENT_STORE %q", cfg.DocumentStore)
	}

	if cfg.SeedDocuments {
		if err := seedCollection(ctx, collection); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return collection, closeFn, nil
}

func seedCollection(ctx context.Context, collection ports.DocumentCollection) error {
	docs, err := seed.Documents()
	if err != nil {
		return fmt.Errorf("load seed documents: %w", err)
	}
	n, err := usecase.SeedCollection(ctx, collection, docs)
	if err != nil {
		return fmt.Errorf("seed collection: %w", err)
	}
	if n > 0 {
		slog.Info("collection_seeded", "documents", n)
	}
	return nil
}

// NewContentExtractor wires the MuPDF renderer and the pure-Go page counter.
func NewContentExtractor(cfg config.Config) *content.Extractor {
	return content.NewExtractor(pdf.NewRenderer(cfg.PDFRenderDPI, cfg.PDFJPEGQuality), pdf.PageCounter{})
}

// NewExtractionClient builds the provider generator selected by
// EXTRACTION_PROVIDER behind the shared extraction client.
func NewExtractionClient(ctx context.Context, cfg config.Config, executor *resilience.Executor) (ports.ExtractionClient, func(), error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.ExtractionProvider))
	switch provider {
	case "", ProviderGemini:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY is required for provider %s", ProviderGemini)
		}
		gen, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("init gemini: %w", err)
		}
		closeFn := func() {
			if err := gen.Close(); err != nil {
				slog.Warn("gemini_close_failed", "error", err)
			}
		}
		return extraction.NewClient(ProviderGemini, gen, executor, gemini.ClassifyError), closeFn, nil
	case ProviderOllama:
		gen := ollama.New(cfg.OllamaURL, cfg.OllamaModel, cfg.ExtractionTimeout)
		return extraction.NewClient(ProviderOllama, gen, executor, ollama.ClassifyError), func() {}, nil
	case ProviderOpenAI:
		gen := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		return extraction.NewClient(ProviderOpenAI, gen, executor, openai.ClassifyError), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown EXTRACTION_PROVIDER %q", cfg.ExtractionProvider)
	}
}

func ResilienceConfig(cfg config.Config) resilience.Config {
	out := resilience.DefaultConfig()
	out.RetryMaxAttempts = cfg.ResilienceRetryMaxAttempts
	out.RetryInitialBackoff = cfg.ResilienceRetryInitialBackoff
	out.RetryMaxBackoff = cfg.ResilienceRetryMaxBackoff
	out.BreakerEnabled = cfg.ResilienceBreakerEnabled
	if cfg.ResilienceBreakerMinRequests > 0 {
		out.BreakerMinRequests = uint32(cfg.ResilienceBreakerMinRequests)
	}
	out.BreakerFailureRatio = cfg.ResilienceBreakerFailureRatio
	out.BreakerOpenTimeout = cfg.ResilienceBreakerOpenTimeout
	return out
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("postgres_close_failed", "error", err)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
