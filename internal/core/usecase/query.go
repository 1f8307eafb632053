package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
)

type QueryUseCase struct {
	collection ports.DocumentCollection
	now        func() time.Time
}

func NewQueryUseCase(collection ports.DocumentCollection) *QueryUseCase {
	return &QueryUseCase{collection: collection, now: time.Now}
}

func (uc *QueryUseCase) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := uc.collection.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Search matches the query case-insensitively against names and tags.
func (uc *QueryUseCase) Search(ctx context.Context, query string) ([]domain.Document, error) {
	docs, err := uc.List(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return docs, nil
	}
	return FilterDocuments(docs, query), nil
}

func FilterDocuments(docs []domain.Document, query string) []domain.Document {
	needle := strings.ToLower(query)
	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if matchesQuery(doc, needle) {
			out = append(out, doc)
		}
	}
	return out
}

func matchesQuery(doc domain.Document, needle string) bool {
	if strings.Contains(strings.ToLower(doc.Name), needle) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get document", errors.New("document id is required"))
	}
	doc, err := uc.collection.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (uc *QueryUseCase) Details(ctx context.Context, id string) (*domain.DocumentDetails, error) {
	doc, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentDetails{
		Document:   *doc,
		Fields:     FormatDetails(doc.ExtractedInfo),
		Validation: ValidateExtraction(doc.ExtractedInfo, uc.now()),
	}, nil
}

type ExportUseCase struct {
	collection ports.DocumentCollection
	writer     ports.SpreadsheetWriter
}

func NewExportUseCase(collection ports.DocumentCollection, writer ports.SpreadsheetWriter) *ExportUseCase {
	return &ExportUseCase{collection: collection, writer: writer}
}

func (uc *ExportUseCase) Export(ctx context.Context, w io.Writer) error {
	docs, err := uc.collection.List(ctx)
	if err != nil {
		return fmt.Errorf("list documents for export: %w", err)
	}
	if err := uc.writer.WriteDocuments(w, docs); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}
