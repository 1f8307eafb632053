package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kirillkom/dossier/internal/bootstrap"
	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/infrastructure/export/xlsx"
)

func newIngestCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Run the extraction pipeline over local files and print the documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(v)
			cfg.DocumentStore = bootstrap.StoreMemory
			cfg.SeedDocuments = false

			files, err := readLocalFiles(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer app.Close()

			docs, err := app.BatchUC.ProcessFiles(ctx, files)
			if err != nil {
				return err
			}
			printDocuments(cmd.OutOrStdout(), docs)

			if out := v.GetString("xlsx"); out != "" {
				if err := writeWorkbook(out, docs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nexported %d documents to %s\n", len(docs), out)
			}
			return nil
		},
	}
	cmd.Flags().String("xlsx", "", "also write the documents to this .xlsx file")
	cmd.Flags().String("provider", "", "extraction provider (gemini, ollama, openai); defaults to EXTRACTION_PROVIDER")
	cmd.Flags().String("model", "", "model name for the selected provider")
	_ = v.BindPFlag("xlsx", cmd.Flags().Lookup("xlsx"))
	_ = v.BindPFlag("provider", cmd.Flags().Lookup("provider"))
	_ = v.BindPFlag("model", cmd.Flags().Lookup("model"))
	return cmd
}

func readLocalFiles(paths []string) ([]domain.UploadedFile, error) {
	files := make([]domain.UploadedFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, domain.UploadedFile{
			Name:     filepath.Base(p),
			MimeType: detectMimeType(p, data),
			Size:     int64(len(data)),
			Data:     data,
		})
	}
	return files, nil
}

// detectMimeType prefers the extension and falls back to content sniffing.
func detectMimeType(path string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		mediaType, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			return mediaType
		}
	}
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return ""
	}
	return mediaType
}

func writeWorkbook(path string, docs []domain.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := xlsx.NewWriter().WriteDocuments(f, docs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
