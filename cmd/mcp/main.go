package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/dossier/internal/adapters/mcp"
	"github.com/kirillkom/dossier/internal/bootstrap"
	"github.com/kirillkom/dossier/internal/config"
	"github.com/kirillkom/dossier/internal/core/usecase"
	"github.com/kirillkom/dossier/internal/observability/logging"
)

const version = "0.1.0"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.Load()
	// stdout carries the MCP protocol; logs go to stderr.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collection, closeCollection, err := bootstrap.OpenCollection(ctx, cfg)
	if err != nil {
		slog.Error("open_collection_failed", "error", err)
		os.Exit(1)
	}
	defer closeCollection()

	s := mcpadapter.NewServer(usecase.NewQueryUseCase(collection), version)
	if err := server.ServeStdio(s); err != nil {
		slog.Error("mcp_serve_failed", "error", err)
	}
}
