package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("docctl %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	out := runCLI(t, "classify", "Passport")
	if !strings.Contains(out, "Category: identity_like") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Tags: Passeport") {
		t.Fatalf("expected Passeport tag:\n%s", out)
	}
}

func TestSeedCommandPrintsTable(t *testing.T) {
	out := runCLI(t, "seed")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header plus 6 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "Carte Nationale XYZ.pdf") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	t.Setenv("EXTRACTION_PROVIDER", "gemini")
	v := viper.New()
	v.Set("provider", "ollama")
	v.Set("model", "llava:13b")

	cfg := loadConfig(v)
	if cfg.ExtractionProvider != "ollama" || cfg.OllamaModel != "llava:13b" {
		t.Fatalf("unexpected config: provider=%s model=%s", cfg.ExtractionProvider, cfg.OllamaModel)
	}
}

func TestReadLocalFilesDetectsMimeType(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.TXT")
	if err := os.WriteFile(txt, []byte("bonjour"), 0o600); err != nil {
		t.Fatal(err)
	}
	noExt := filepath.Join(dir, "scan")
	if err := os.WriteFile(noExt, []byte("%PDF-1.7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := readLocalFiles([]string{txt, noExt})
	if err != nil {
		t.Fatalf("read files: %v", err)
	}
	if files[0].Name != "notes.TXT" || files[0].MimeType != "text/plain" || files[0].Size != 7 {
		t.Fatalf("unexpected first file: %+v", files[0])
	}
	if files[1].MimeType != "application/pdf" {
		t.Fatalf("expected sniffed pdf, got %q", files[1].MimeType)
	}

	if _, err := readLocalFiles([]string{filepath.Join(dir, "missing.pdf")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
