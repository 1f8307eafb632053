package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/kirillkom/dossier/internal/config"
	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/usecase"
	"github.com/kirillkom/dossier/internal/infrastructure/repository/memory"
)

type ingestFake struct {
	uploaded  []domain.UploadedFile
	submitted []domain.UploadedFile
	err       error
}

func (f *ingestFake) Upload(_ context.Context, files []domain.UploadedFile) ([]domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = append(f.uploaded, files...)
	docs := make([]domain.Document, 0, len(files))
	for i, file := range files {
		docs = append(docs, domain.Document{
			ID:       "doc-" + string(rune('1'+i)),
			Name:     file.Name,
			Category: domain.CategoryGeneric,
			Status:   domain.StatusVerified,
			Tags:     []string{"Document Important"},
		})
	}
	return docs, nil
}

func (f *ingestFake) Submit(_ context.Context, files []domain.UploadedFile) (*domain.BatchSubmission, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.submitted = append(f.submitted, files...)
	batch := &domain.BatchSubmission{BatchID: "batch-1"}
	for _, file := range files {
		batch.Files = append(batch.Files, domain.SubmittedFile{Name: file.Name, MimeType: file.MimeType, Size: file.Size})
	}
	return batch, nil
}

// newTestHandler wires the router over an in-memory collection.
func newTestHandler(cfg config.Config) http.Handler {
	return newTestRouter(cfg, &ingestFake{}, memory.NewCollection()).Handler()
}

func newTestRouter(cfg config.Config, ingest *ingestFake, collection *memory.Collection) *Router {
	return NewRouter(
		cfg,
		ingest,
		usecase.NewQueryUseCase(collection),
		nil,
		usecase.NewProcedureUseCase(),
		usecase.NewAccessRequestUseCase(collection),
	)
}

type part struct {
	name, mime string
	body       []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.mime)
		w, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := w.Write(p.body); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestHandler(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestUploadDocumentsKeepsSelectionOrder(t *testing.T) {
	ingest := &ingestFake{}
	handler := newTestRouter(config.Config{}, ingest, memory.NewCollection()).Handler()

	body, contentType := multipartBody(t,
		part{name: "facture_edf.pdf", mime: "application/pdf", body: []byte("%PDF-1.4")},
		part{name: "notes.txt", mime: "text/plain", body: []byte("hello")},
		part{name: "archive.zip", mime: "application/zip", body: []byte("PK")},
	)
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	var resp struct {
		Documents []domain.Document `json:"documents"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Documents) != 3 || resp.Documents[2].Name != "archive.zip" {
		t.Fatalf("unexpected documents: %+v", resp.Documents)
	}
	if len(ingest.uploaded) != 3 {
		t.Fatalf("expected 3 uploaded files, got %d", len(ingest.uploaded))
	}
	first := ingest.uploaded[0]
	if first.MimeType != "application/pdf" || first.Size != 8 || string(first.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected first file: %+v", first)
	}
}

func TestUploadDocumentsRequiresFilePart(t *testing.T) {
	handler := newTestHandler(config.Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("note", "no files here")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUploadDocumentsRejectsOversizedBody(t *testing.T) {
	handler := newTestHandler(config.Config{MaxUploadMB: 1})

	body, contentType := multipartBody(t, part{name: "big.txt", mime: "text/plain", body: bytes.Repeat([]byte("a"), 2<<20)})
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestSubmitBatchReturnsAccepted(t *testing.T) {
	ingest := &ingestFake{}
	handler := newTestRouter(config.Config{}, ingest, memory.NewCollection()).Handler()

	body, contentType := multipartBody(t,
		part{name: "a.txt", mime: "text/plain", body: []byte("a")},
		part{name: "b.png", mime: "image/png", body: []byte{0x89, 'P'}},
	)
	req := httptest.NewRequest(http.MethodPost, "/v1/batches", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}
	var resp struct {
		BatchID string `json:"batch_id"`
		Files   int    `json:"files"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BatchID != "batch-1" || resp.Files != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitBatchMapsTemporaryTo503(t *testing.T) {
	ingest := &ingestFake{err: domain.WrapError(domain.ErrTemporary, "submit", errors.New("queue down"))}
	handler := newTestRouter(config.Config{}, ingest, memory.NewCollection()).Handler()

	body, contentType := multipartBody(t, part{name: "a.txt", mime: "text/plain", body: []byte("a")})
	req := httptest.NewRequest(http.MethodPost, "/v1/batches", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}
