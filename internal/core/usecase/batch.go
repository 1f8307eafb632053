package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
)

// BatchItem is one file of a batch. Load is called inside the per-file
// recovery boundary, so storage errors become error documents too.
type BatchItem struct {
	File domain.UploadedFile
	Load func(ctx context.Context) (domain.UploadedFile, error)
}

func itemsFromFiles(files []domain.UploadedFile) []BatchItem {
	items := make([]BatchItem, 0, len(files))
	for _, f := range files {
		items = append(items, BatchItem{File: f})
	}
	return items
}

type BatchUseCase struct {
	pipeline   *ProcessDocumentUseCase
	collection ports.DocumentCollection
	observer   ports.ProcessingObserver
}

func NewBatchUseCase(
	pipeline *ProcessDocumentUseCase,
	collection ports.DocumentCollection,
	observer ports.ProcessingObserver,
) *BatchUseCase {
	return &BatchUseCase{
		pipeline:   pipeline,
		collection: collection,
		observer:   observer,
	}
}

// ProcessFiles runs a batch of in-memory files.
func (uc *BatchUseCase) ProcessFiles(ctx context.Context, files []domain.UploadedFile) ([]domain.Document, error) {
	return uc.Run(ctx, itemsFromFiles(files))
}

// Run processes items one after another in order and appends the resulting
// documents to the collection in a single call once the batch completes.
func (uc *BatchUseCase) Run(ctx context.Context, items []BatchItem) ([]domain.Document, error) {
	start := time.Now()
	docs := make([]domain.Document, 0, len(items))
	failed := 0
	for _, item := range items {
		doc := uc.processItem(ctx, item)
		if doc.Status == domain.StatusError {
			failed++
		}
		docs = append(docs, doc)
	}

	if uc.collection != nil && len(docs) > 0 {
		// A finished batch is kept even if the caller went away meanwhile.
		if err := uc.collection.AppendBatch(context.WithoutCancel(ctx), docs); err != nil {
			return docs, fmt.Errorf("append batch to collection: %w", err)
		}
	}

	slog.Info("batch_processed",
		"files", len(items),
		"failed", failed,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return docs, nil
}

func (uc *BatchUseCase) processItem(ctx context.Context, item BatchItem) (doc domain.Document) {
	start := time.Now()
	file := item.File

	defer func() {
		if r := recover(); r != nil {
			doc = uc.pipeline.assembler.Failed(file, fmt.Errorf("%v", r))
			slog.Error("document_panic", "file", file.Name, "panic", r)
		}
		if uc.observer != nil {
			uc.observer.ObserveDocument(doc.Category, doc.Status, time.Since(start))
		}
	}()

	if item.Load != nil {
		loaded, err := item.Load(ctx)
		if err != nil {
			slog.Warn("document_load_failed", "file", file.Name, "error", err)
			return uc.pipeline.assembler.Failed(file, err)
		}
		file = loaded
	}

	processed, err := uc.pipeline.Process(ctx, file)
	if err != nil {
		slog.Warn("document_failed", "file", file.Name, "error", err)
		return uc.pipeline.assembler.Failed(file, err)
	}

	slog.Debug("document_processed",
		"file", file.Name,
		"category", processed.Category,
		"tags", processed.Tags,
	)
	return processed
}
