package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/dossier/internal/core/classification"
	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
)

const fallbackDocumentType = "Generic Document"

// ProcessDocumentUseCase runs the per-file pipeline:
// content extraction, external extraction, classification, tagging, assembly.
type ProcessDocumentUseCase struct {
	extractor ports.ContentExtractor
	client    ports.ExtractionClient
	assembler Assembler
}

func NewProcessDocumentUseCase(
	extractor ports.ContentExtractor,
	client ports.ExtractionClient,
	assembler Assembler,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		extractor: extractor,
		client:    client,
		assembler: assembler.withDefaults(),
	}
}

func (uc *ProcessDocumentUseCase) Process(ctx context.Context, file domain.UploadedFile) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, fmt.Errorf("process %s: %w", file.Name, err)
	}

	payload := uc.extractor.Extract(ctx, file)
	ext, err := uc.extract(ctx, payload)
	if err != nil {
		return domain.Document{}, err
	}
	fillDocumentType(ext, payload.Hint)

	category := classification.Classify(ext)
	tags := classification.GenerateTags(ext, category)

	return uc.assembler.Assemble(file, ext, category, tags), nil
}

func (uc *ProcessDocumentUseCase) extract(ctx context.Context, payload domain.Payload) (*domain.RawExtraction, error) {
	switch payload.Kind {
	case domain.PayloadFailure:
		if payload.Failure == nil {
			return domain.NewRawExtraction(), nil
		}
		return payload.Failure.Clone(), nil
	case domain.PayloadImage, domain.PayloadText:
		ext := uc.client.Extract(ctx, payload)
		if ext == nil {
			return domain.NewRawExtraction(), nil
		}
		return ext, nil
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract content", errors.New("unknown payload kind "+string(payload.Kind)))
	}
}

// fillDocumentType falls back to the file-name hint. A record carrying an
// extraction error keeps no type, so it classifies as generic with the
// sentinel tag instead of being tagged with the error text.
func fillDocumentType(ext *domain.RawExtraction, hint string) {
	if ext.Truthy(domain.FieldDocumentType) || ext.ErrorMessage() != "" {
		return
	}
	if hint == "" {
		hint = fallbackDocumentType
	}
	ext.Set(domain.FieldDocumentType, domain.StringValue(hint))
}

// Assembler merges pipeline outputs into a Document without interpreting them.
type Assembler struct {
	Now   func() time.Time
	NewID func() string
}

func (a Assembler) withDefaults() Assembler {
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.NewID == nil {
		a.NewID = uuid.NewString
	}
	return a
}

func (a Assembler) Assemble(
	file domain.UploadedFile,
	ext *domain.RawExtraction,
	category domain.Category,
	tags []string,
) domain.Document {
	a = a.withDefaults()
	now := a.Now()

	validUntil := domain.ValidUntilNotApplicable
	if ext.Truthy(domain.FieldExpiryDate) {
		validUntil = ext.Text(domain.FieldExpiryDate)
	}

	return domain.Document{
		ID:            a.NewID(),
		Name:          file.Name,
		Category:      category,
		Status:        domain.StatusVerified,
		ValidUntil:    validUntil,
		AddedOn:       now.Format(domain.DateLayoutFR),
		Tags:          tags,
		Size:          formatSize(fileSize(file)),
		SizeBytes:     fileSize(file),
		MimeType:      file.MimeType,
		ContentRef:    file.StorageKey,
		ExtractedInfo: ext,
		CreatedAt:     now.UTC(),
	}
}

// Failed builds the well-formed error document used when a file's pipeline breaks.
func (a Assembler) Failed(file domain.UploadedFile, cause error) domain.Document {
	a = a.withDefaults()
	now := a.Now()

	msg := "Unknown error"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}

	return domain.Document{
		ID:         a.NewID(),
		Name:       file.Name,
		Category:   domain.CategoryGeneric,
		Status:     domain.StatusError,
		ValidUntil: domain.ValidUntilNotApplicable,
		AddedOn:    now.Format(domain.DateLayoutFR),
		Tags:       []string{domain.TagProcessingError},
		Size:       formatSize(fileSize(file)),
		SizeBytes:  fileSize(file),
		MimeType:   file.MimeType,
		ContentRef: file.StorageKey,
		ExtractedInfo: domain.NewRawExtraction(
			domain.Field{Key: domain.FieldDocumentType, Value: domain.StringValue(domain.DocumentTypeProcessing)},
			domain.Field{Key: domain.FieldError, Value: domain.ErrorValue(msg)},
		),
		CreatedAt: now.UTC(),
	}
}

func fileSize(file domain.UploadedFile) int64 {
	if file.Size > 0 {
		return file.Size
	}
	return int64(len(file.Data))
}

func formatSize(bytes int64) string {
	return fmt.Sprintf("%.2fMb", float64(bytes)/(1024*1024))
}
