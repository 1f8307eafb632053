package pdf

import (
	"context"
	"testing"
)

func TestRendererRejectsEmptyInput(t *testing.T) {
	r := NewRenderer(0, 0)
	if r.dpi != DefaultDPI || r.quality != DefaultJPEGQuality {
		t.Fatalf("expected defaults, got dpi=%v quality=%d", r.dpi, r.quality)
	}
	if _, err := r.RenderFirstPage(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestRendererHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer(72, 80).RenderFirstPage(ctx, []byte("%PDF-1.4")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestPageCounterRejectsGarbage(t *testing.T) {
	if _, err := (PageCounter{}).CountPages([]byte("not a pdf at all")); err == nil {
		t.Fatalf("expected error for non-pdf bytes")
	}
}
