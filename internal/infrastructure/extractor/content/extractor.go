// Package content normalizes uploaded files into extraction payloads.
package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kirillkom/dossier/internal/core/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
	mimeJPEG = "image/jpeg"

	pdfConversionType    = "PDF Conversion Error"
	pdfConversionMessage = "Failed to convert PDF page to image"
	unsupportedType      = "Unsupported File Type"

	HintIDCard   = "id_card"
	HintPassport = "passport"
	HintInvoice  = "invoice"
	HintGeneric  = "generic_document"
)

// PageRenderer rasterizes the first page of a PDF to JPEG bytes.
type PageRenderer interface {
	RenderFirstPage(ctx context.Context, data []byte) ([]byte, error)
}

// PageCounter reports how many pages a PDF has.
type PageCounter interface {
	CountPages(data []byte) (int, error)
}

type Extractor struct {
	renderer PageRenderer
	counter  PageCounter
}

// NewExtractor builds an extractor; counter may be nil.
func NewExtractor(renderer PageRenderer, counter PageCounter) *Extractor {
	return &Extractor{renderer: renderer, counter: counter}
}

func (e *Extractor) Extract(ctx context.Context, file domain.UploadedFile) domain.Payload {
	mimeType := strings.ToLower(strings.TrimSpace(file.MimeType))
	ext := strings.ToLower(filepath.Ext(file.Name))
	hint := DetermineHint(file.Name)

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return domain.ImagePayload(mimeType, file.Data, hint)
	case mimeType == mimePDF || ext == ".pdf":
		return e.extractPDF(ctx, file, hint)
	case mimeType == mimeText || ext == ".txt":
		return domain.TextPayload(DecodeText(file.Data), hint)
	default:
		kind := mimeType
		if kind == "" {
			kind = ext
		}
		return domain.FailurePayload(
			unsupportedType,
			"File type "+kind+" not processed for AI extraction.",
			hint,
		)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, file domain.UploadedFile, hint string) domain.Payload {
	if e.renderer == nil {
		return domain.FailurePayload(pdfConversionType, pdfConversionMessage, hint)
	}
	image, err := e.renderer.RenderFirstPage(ctx, file.Data)
	if err != nil {
		slog.Warn("pdf_conversion_failed", "file", file.Name, "error", err)
		return domain.FailurePayload(pdfConversionType, pdfConversionMessage+": "+err.Error(), hint)
	}

	if e.counter != nil {
		if pages, err := e.counter.CountPages(file.Data); err == nil && pages > 1 {
			slog.Debug("pdf_pages_ignored", "file", file.Name, "pages", pages, "ignored", pages-1)
		}
	}
	return domain.ImagePayload(mimeJPEG, image, hint)
}

// DetermineHint guesses a document kind from the file name.
func DetermineHint(name string) string {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "id", "identity", "carte"):
		return HintIDCard
	case containsAny(lower, "passport", "passeport"):
		return HintPassport
	case containsAny(lower, "bill", "facture"):
		return HintInvoice
	default:
		return HintGeneric
	}
}

// DecodeText honours a UTF-8 or UTF-16 byte-order mark and replaces invalid
// UTF-8 sequences with U+FFFD.
func DecodeText(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
