package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
)

type IngestDocumentUseCase struct {
	storage ports.ObjectStorage
	queue   ports.BatchQueue
	batch   *BatchUseCase
}

func NewIngestDocumentUseCase(
	storage ports.ObjectStorage,
	queue ports.BatchQueue,
	batch *BatchUseCase,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		storage: storage,
		queue:   queue,
		batch:   batch,
	}
}

// Upload stores and processes a batch synchronously.
func (uc *IngestDocumentUseCase) Upload(ctx context.Context, files []domain.UploadedFile) ([]domain.Document, error) {
	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("no files in batch"))
	}

	items := make([]BatchItem, 0, len(files))
	for _, f := range files {
		file := f
		items = append(items, BatchItem{
			File: file,
			Load: func(ctx context.Context) (domain.UploadedFile, error) {
				return uc.store(ctx, file)
			},
		})
	}
	return uc.batch.Run(ctx, items)
}

// Submit stores a batch and queues it for the worker.
func (uc *IngestDocumentUseCase) Submit(ctx context.Context, files []domain.UploadedFile) (*domain.BatchSubmission, error) {
	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit batch", errors.New("no files in batch"))
	}
	if uc.queue == nil {
		return nil, domain.WrapError(domain.ErrTemporary, "submit batch", errors.New("batch queue is not configured"))
	}

	submission := domain.BatchSubmission{
		BatchID:     uuid.NewString(),
		SubmittedAt: time.Now().UTC(),
		Files:       make([]domain.SubmittedFile, 0, len(files)),
	}
	for _, f := range files {
		stored, err := uc.store(ctx, f)
		if err != nil {
			return nil, err
		}
		submission.Files = append(submission.Files, domain.SubmittedFile{
			Name:       stored.Name,
			MimeType:   stored.MimeType,
			Size:       fileSize(stored),
			StorageKey: stored.StorageKey,
		})
	}

	if err := uc.queue.PublishBatchSubmitted(ctx, submission); err != nil {
		return nil, fmt.Errorf("publish batch submission: %w", err)
	}
	return &submission, nil
}

// ProcessSubmitted loads a queued batch from object storage and processes it.
func (uc *IngestDocumentUseCase) ProcessSubmitted(ctx context.Context, submission domain.BatchSubmission) error {
	items := make([]BatchItem, 0, len(submission.Files))
	for _, sf := range submission.Files {
		entry := sf
		items = append(items, BatchItem{
			File: domain.UploadedFile{
				Name:       entry.Name,
				MimeType:   entry.MimeType,
				Size:       entry.Size,
				StorageKey: entry.StorageKey,
			},
			Load: func(ctx context.Context) (domain.UploadedFile, error) {
				return uc.open(ctx, entry)
			},
		})
	}

	if _, err := uc.batch.Run(ctx, items); err != nil {
		return fmt.Errorf("process batch %s: %w", submission.BatchID, err)
	}
	return nil
}

func (uc *IngestDocumentUseCase) store(ctx context.Context, file domain.UploadedFile) (domain.UploadedFile, error) {
	if uc.storage == nil {
		return file, nil
	}
	key := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(file.Name))
	if err := uc.storage.Save(ctx, key, bytes.NewReader(file.Data)); err != nil {
		return file, fmt.Errorf("save to object storage: %w", err)
	}
	file.StorageKey = key
	if file.Size == 0 {
		file.Size = int64(len(file.Data))
	}
	return file, nil
}

func (uc *IngestDocumentUseCase) open(ctx context.Context, entry domain.SubmittedFile) (domain.UploadedFile, error) {
	file := domain.UploadedFile{
		Name:       entry.Name,
		MimeType:   entry.MimeType,
		Size:       entry.Size,
		StorageKey: entry.StorageKey,
	}
	if uc.storage == nil {
		return file, errors.New("object storage is not configured")
	}

	reader, err := uc.storage.Open(ctx, entry.StorageKey)
	if err != nil {
		return file, fmt.Errorf("open stored file: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return file, fmt.Errorf("read stored file: %w", err)
	}
	file.Data = data
	if file.Size == 0 {
		file.Size = int64(len(data))
	}
	return file, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.bin"
	}
	return base
}
