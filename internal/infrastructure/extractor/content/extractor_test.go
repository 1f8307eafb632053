package content

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/dossier/internal/core/domain"
)

type rendererFake struct {
	image []byte
	err   error
	calls int
}

func (f *rendererFake) RenderFirstPage(context.Context, []byte) ([]byte, error) {
	f.calls++
	return f.image, f.err
}

type counterFake struct {
	pages int
	err   error
}

func (f counterFake) CountPages([]byte) (int, error) { return f.pages, f.err }

func TestExtractImagePassesThrough(t *testing.T) {
	e := NewExtractor(&rendererFake{}, nil)
	p := e.Extract(context.Background(), domain.UploadedFile{Name: "Passeport.PNG", MimeType: "Image/PNG", Data: []byte{1, 2}})
	if p.Kind != domain.PayloadImage || p.MimeType != "image/png" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if p.Hint != HintPassport {
		t.Fatalf("expected passport hint, got %s", p.Hint)
	}
}

func TestExtractPDFRendersFirstPage(t *testing.T) {
	renderer := &rendererFake{image: []byte("jpeg")}
	e := NewExtractor(renderer, counterFake{pages: 3})

	// Extension wins even when the browser sends a generic type.
	p := e.Extract(context.Background(), domain.UploadedFile{Name: "facture_edf_mars.pdf", MimeType: "application/octet-stream", Data: []byte("%PDF")})
	if p.Kind != domain.PayloadImage || p.MimeType != "image/jpeg" || string(p.Data) != "jpeg" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if p.Hint != HintInvoice {
		t.Fatalf("expected invoice hint, got %s", p.Hint)
	}
	if renderer.calls != 1 {
		t.Fatalf("expected one render call, got %d", renderer.calls)
	}
}

func TestExtractPDFConversionFailure(t *testing.T) {
	e := NewExtractor(&rendererFake{err: errors.New("corrupt xref")}, counterFake{err: errors.New("ignored")})
	p := e.Extract(context.Background(), domain.UploadedFile{Name: "scan.pdf", MimeType: "application/pdf"})
	if p.Kind != domain.PayloadFailure {
		t.Fatalf("expected failure payload, got %s", p.Kind)
	}
	if p.Failure.DocumentType() != "PDF Conversion Error" || p.Failure.ErrorMessage() != "Failed to convert PDF page to image: corrupt xref" {
		t.Fatalf("unexpected failure record: %+v", p.Failure.Fields())
	}

	noRenderer := NewExtractor(nil, nil).Extract(context.Background(), domain.UploadedFile{Name: "scan.pdf"})
	if noRenderer.Failure.ErrorMessage() != "Failed to convert PDF page to image" {
		t.Fatalf("unexpected failure without renderer: %+v", noRenderer.Failure.Fields())
	}
}

func TestExtractTextDecodesBOM(t *testing.T) {
	e := NewExtractor(nil, nil)

	utf16 := []byte{0xFF, 0xFE, 'o', 0, 'k', 0}
	p := e.Extract(context.Background(), domain.UploadedFile{Name: "notes.txt", Data: utf16})
	if p.Kind != domain.PayloadText || p.Text != "ok" {
		t.Fatalf("unexpected payload: %+v", p)
	}

	bom8 := append([]byte{0xEF, 0xBB, 0xBF}, []byte("relevé")...)
	p = e.Extract(context.Background(), domain.UploadedFile{Name: "r", MimeType: "text/plain", Data: bom8})
	if p.Text != "relevé" {
		t.Fatalf("expected BOM stripped, got %q", p.Text)
	}
}

func TestExtractTextReplacesInvalidUTF8(t *testing.T) {
	got := DecodeText([]byte{'a', 0xff, 'b'})
	if got != "a�b" {
		t.Fatalf("unexpected decode %q", got)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewExtractor(nil, nil)

	p := e.Extract(context.Background(), domain.UploadedFile{Name: "archive.zip", MimeType: "application/zip"})
	if p.Kind != domain.PayloadFailure || p.Failure.DocumentType() != "Unsupported File Type" {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if p.Failure.ErrorMessage() != "File type application/zip not processed for AI extraction." {
		t.Fatalf("unexpected message %q", p.Failure.ErrorMessage())
	}

	p = e.Extract(context.Background(), domain.UploadedFile{Name: "sheet.ODS"})
	if p.Failure.ErrorMessage() != "File type .ods not processed for AI extraction." {
		t.Fatalf("expected extension in message, got %q", p.Failure.ErrorMessage())
	}
}

func TestDetermineHint(t *testing.T) {
	cases := map[string]string{
		"carte_nationale.jpg":  HintIDCard,
		"IDENTITY.png":         HintIDCard,
		"passeport_2020.pdf":   HintPassport,
		"electricity_bill.pdf": HintInvoice,
		"Facture-Mars.pdf":     HintInvoice,
		"bulletin.pdf":         HintGeneric,
	}
	for name, want := range cases {
		if got := DetermineHint(name); got != want {
			t.Fatalf("DetermineHint(%q) = %q, want %q", name, got, want)
		}
	}
}
