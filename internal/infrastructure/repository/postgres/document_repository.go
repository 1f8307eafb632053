package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/dossier/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the documents table. extracted_info is JSON rather
// than JSONB so that key order survives the round trip.
func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	seq BIGSERIAL NOT NULL,
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	status TEXT NOT NULL,
	valid_until TEXT NOT NULL,
	added_on TEXT NOT NULL,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	size_label TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	mime_type TEXT NOT NULL DEFAULT '',
	content_ref TEXT NOT NULL DEFAULT '',
	extracted_info JSON,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_seq ON documents(seq);
CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const insertDocument = `
INSERT INTO documents (
	id, name, category, status, valid_until, added_on, tags, size_label, size_bytes, mime_type, content_ref, extracted_info, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`

const selectDocument = `
SELECT id, name, category, status, valid_until, added_on, tags, size_label, size_bytes, mime_type, content_ref, extracted_info, created_at
FROM documents
`

// AppendBatch inserts the whole batch in one transaction; seq keeps append order.
func (r *DocumentRepository) AppendBatch(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range docs {
		args, err := documentArgs(&docs[i])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertDocument, args...); err != nil {
			return fmt.Errorf("insert document %s: %w", docs[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append tx: %w", err)
	}
	return nil
}

func documentArgs(doc *domain.Document) ([]any, error) {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	var extJSON []byte
	if doc.ExtractedInfo != nil {
		extJSON, err = doc.ExtractedInfo.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal extracted info: %w", err)
		}
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return []any{
		doc.ID, doc.Name, string(doc.Category), string(doc.Status), doc.ValidUntil, doc.AddedOn,
		tagsJSON, doc.Size, doc.SizeBytes, doc.MimeType, doc.ContentRef, extJSON, createdAt,
	}, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, selectDocument+"ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, selectDocument+"WHERE id = $1", id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, err
	}
	return &doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var doc domain.Document
	var category, status string
	var tagsRaw, extRaw []byte

	err := row.Scan(
		&doc.ID, &doc.Name, &category, &status, &doc.ValidUntil, &doc.AddedOn,
		&tagsRaw, &doc.Size, &doc.SizeBytes, &doc.MimeType, &doc.ContentRef, &extRaw, &doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, err
		}
		return doc, fmt.Errorf("scan document: %w", err)
	}

	if err := json.Unmarshal(tagsRaw, &doc.Tags); err != nil {
		return doc, fmt.Errorf("unmarshal tags: %w", err)
	}
	if len(extRaw) > 0 && string(extRaw) != "null" {
		ext := domain.NewRawExtraction()
		if err := ext.UnmarshalJSON(extRaw); err != nil {
			return doc, fmt.Errorf("unmarshal extracted info: %w", err)
		}
		doc.ExtractedInfo = ext
	}
	doc.Category = domain.Category(category)
	doc.Status = domain.DocumentStatus(status)
	return doc, nil
}
