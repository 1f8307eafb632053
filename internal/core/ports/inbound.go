package ports

import (
	"context"
	"io"

	"github.com/kirillkom/dossier/internal/core/domain"
)

// DocumentIngestor is the inbound contract for upload batches.
type DocumentIngestor interface {
	Upload(ctx context.Context, files []domain.UploadedFile) ([]domain.Document, error)
	Submit(ctx context.Context, files []domain.UploadedFile) (*domain.BatchSubmission, error)
}

// BatchProcessor runs queued batches.
type BatchProcessor interface {
	ProcessSubmitted(ctx context.Context, batch domain.BatchSubmission) error
}

// DocumentQueryService is the read model behind list, search and details views.
type DocumentQueryService interface {
	List(ctx context.Context) ([]domain.Document, error)
	Search(ctx context.Context, query string) ([]domain.Document, error)
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Details(ctx context.Context, id string) (*domain.DocumentDetails, error)
}

// DocumentExporter renders the collection as a spreadsheet.
type DocumentExporter interface {
	Export(ctx context.Context, w io.Writer) error
}

type ProcedureService interface {
	List(ctx context.Context) []domain.Procedure
	StartRenewal(ctx context.Context) domain.Procedure
	Complete(ctx context.Context, id int) (*domain.Procedure, error)
}

type AccessRequestService interface {
	List(ctx context.Context) []domain.AccessRequest
	Request(ctx context.Context, requester, documentID string) (*domain.AccessRequest, error)
	Approve(ctx context.Context, id int) (*domain.AccessRequest, error)
	Reject(ctx context.Context, id int) (*domain.AccessRequest, error)
}
