package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/dossier/internal/core/domain"
)

// DocumentCollection stores assembled documents in append order.
type DocumentCollection interface {
	// AppendBatch appends a whole batch at once; readers never observe a partial batch.
	AppendBatch(ctx context.Context, docs []domain.Document) error
	List(ctx context.Context) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// ObjectStorage stores uploaded bytes.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// BatchQueue publishes/consumes asynchronous upload batches.
type BatchQueue interface {
	PublishBatchSubmitted(ctx context.Context, batch domain.BatchSubmission) error
	SubscribeBatchSubmitted(ctx context.Context, handler func(context.Context, domain.BatchSubmission) error) error
}

// ContentExtractor normalizes an uploaded file into an extraction payload.
type ContentExtractor interface {
	Extract(ctx context.Context, file domain.UploadedFile) domain.Payload
}

// ExtractionClient submits a payload to the external document-understanding
// service. Failures are reported inside the returned record, never as errors.
type ExtractionClient interface {
	Extract(ctx context.Context, payload domain.Payload) *domain.RawExtraction
}

// SpreadsheetWriter writes documents as a workbook.
type SpreadsheetWriter interface {
	WriteDocuments(w io.Writer, docs []domain.Document) error
}

// ProcessingObserver receives per-document pipeline outcomes.
type ProcessingObserver interface {
	ObserveDocument(category domain.Category, status domain.DocumentStatus, duration time.Duration)
}
