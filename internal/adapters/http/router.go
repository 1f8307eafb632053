package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/dossier/internal/config"
	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
	"github.com/kirillkom/dossier/internal/observability/metrics"
)

const (
	uploadField        = "file"
	defaultMaxUploadMB = 32
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Router struct {
	cfg        config.Config
	ingest     ports.DocumentIngestor
	query      ports.DocumentQueryService
	exporter   ports.DocumentExporter
	procedures ports.ProcedureService
	access     ports.AccessRequestService
	metrics    *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	query ports.DocumentQueryService,
	exporter ports.DocumentExporter,
	procedures ports.ProcedureService,
	access ports.AccessRequestService,
) *Router {
	return &Router{
		cfg:        cfg,
		ingest:     ingest,
		query:      query,
		exporter:   exporter,
		procedures: procedures,
		access:     access,
	}
}

// WithMetrics mounts /metrics and records request metrics.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/documents", rt.uploadDocuments)
	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/documents/export.xlsx", rt.exportDocuments)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	mux.HandleFunc("GET /v1/documents/{id}/details", rt.getDocumentDetails)
	mux.HandleFunc("POST /v1/batches", rt.submitBatch)

	mux.HandleFunc("GET /v1/procedures", rt.listProcedures)
	mux.HandleFunc("POST /v1/procedures", rt.startProcedure)
	mux.HandleFunc("POST /v1/procedures/{id}/complete", rt.completeProcedure)

	mux.HandleFunc("GET /v1/access-requests", rt.listAccessRequests)
	mux.HandleFunc("POST /v1/access-requests", rt.createAccessRequest)
	mux.HandleFunc("POST /v1/access-requests/{id}/approve", rt.approveAccessRequest)
	mux.HandleFunc("POST /v1/access-requests/{id}/reject", rt.rejectAccessRequest)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocuments(w http.ResponseWriter, r *http.Request) {
	if rt.ingest == nil {
		writeError(w, r, domain.WrapError(domain.ErrTemporary, "upload", errors.New("ingest is not configured")))
		return
	}
	files, err := rt.readUploadedFiles(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rt.recordUploadedFiles("sync", len(files))

	docs, err := rt.ingest.Upload(r.Context(), files)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"documents": docs})
}

func (rt *Router) submitBatch(w http.ResponseWriter, r *http.Request) {
	if rt.ingest == nil {
		writeError(w, r, domain.WrapError(domain.ErrTemporary, "submit batch", errors.New("ingest is not configured")))
		return
	}
	files, err := rt.readUploadedFiles(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rt.recordUploadedFiles("async", len(files))

	batch, err := rt.ingest.Submit(r.Context(), files)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"batch_id": batch.BatchID,
		"files":    len(batch.Files),
	})
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	var (
		docs []domain.Document
		err  error
	)
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		docs, err = rt.query.Search(r.Context(), q)
	} else {
		docs, err = rt.query.List(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) exportDocuments(w http.ResponseWriter, r *http.Request) {
	if rt.exporter == nil {
		writeError(w, r, domain.WrapError(domain.ErrTemporary, "export", errors.New("export is not configured")))
		return
	}
	var buf bytes.Buffer
	if err := rt.exporter.Export(r.Context(), &buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.query.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) getDocumentDetails(w http.ResponseWriter, r *http.Request) {
	details, err := rt.query.Details(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (rt *Router) listProcedures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"procedures": nonNil(rt.procedures.List(r.Context()))})
}

func (rt *Router) startProcedure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, rt.procedures.StartRenewal(r.Context()))
}

func (rt *Router) completeProcedure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := rt.procedures.Complete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (rt *Router) listAccessRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"access_requests": nonNil(rt.access.List(r.Context()))})
}

func (rt *Router) createAccessRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requester  string `json:"requester"`
		DocumentID string `json:"document_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document_id is required"})
		return
	}

	created, err := rt.access.Request(r.Context(), req.Requester, req.DocumentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (rt *Router) approveAccessRequest(w http.ResponseWriter, r *http.Request) {
	rt.decideAccessRequest(w, r, rt.access.Approve)
}

func (rt *Router) rejectAccessRequest(w http.ResponseWriter, r *http.Request) {
	rt.decideAccessRequest(w, r, rt.access.Reject)
}

func (rt *Router) decideAccessRequest(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, id int) (*domain.AccessRequest, error),
) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decide(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (rt *Router) recordUploadedFiles(mode string, n int) {
	if rt.metrics != nil {
		rt.metrics.RecordUploadedFiles("api", mode, n)
	}
}

func (rt *Router) readUploadedFiles(w http.ResponseWriter, r *http.Request) ([]domain.UploadedFile, error) {
	maxMB := rt.cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}
	maxBytes := int64(maxMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", fmt.Errorf("upload exceeds %d MB", maxMB))
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("multipart field 'file' is required"))
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readPart(fh)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
		}
		files = append(files, file)
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) (domain.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("open part %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read part %q: %w", fh.Filename, err)
	}
	return domain.UploadedFile{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}

func pathID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "parse id", fmt.Errorf("invalid id %q", raw))
	}
	return id, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
