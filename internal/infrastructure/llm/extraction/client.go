// Package extraction implements the document-understanding call on top of a
// provider Generator: prompt selection, resilient invocation and reply parsing.
package extraction

import (
	"context"
	"log/slog"

	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/infrastructure/resilience"
)

const (
	textFailureMessage  = "Failed to extract information from document"
	imageFailureMessage = "Failed to extract information from image"
)

// Generator is a raw model backend.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateVision(ctx context.Context, prompt, mimeType string, image []byte) (string, error)
}

type Client struct {
	provider  string
	generator Generator
	executor  *resilience.Executor
	classify  resilience.ErrorClassifier
}

func NewClient(provider string, generator Generator, executor *resilience.Executor, classify resilience.ErrorClassifier) *Client {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	if classify == nil {
		classify = resilience.HTTPClassifier(nil)
	}
	return &Client{
		provider:  provider,
		generator: generator,
		executor:  executor,
		classify:  classify,
	}
}

func (c *Client) Extract(ctx context.Context, payload domain.Payload) *domain.RawExtraction {
	switch payload.Kind {
	case domain.PayloadFailure:
		if payload.Failure == nil {
			return domain.NewRawExtraction()
		}
		return payload.Failure.Clone()
	case domain.PayloadImage:
		return c.run(ctx, c.provider+".vision", imageFailureMessage, func(ctx context.Context) (string, error) {
			return c.generator.GenerateVision(ctx, visionPrompt, payload.MimeType, payload.Data)
		})
	default:
		prompt := buildTextPrompt(payload.Text, payload.Hint)
		return c.run(ctx, c.provider+".text", textFailureMessage, func(ctx context.Context) (string, error) {
			return c.generator.GenerateText(ctx, prompt)
		})
	}
}

func (c *Client) run(
	ctx context.Context,
	operation string,
	failureMessage string,
	call func(context.Context) (string, error),
) *domain.RawExtraction {
	reply, err := resilience.Call(ctx, c.executor, operation, call, c.classify)
	if err != nil {
		slog.Error("extraction_failed",
			"operation", operation,
			"breaker", c.executor.State(operation),
			"error", err,
		)
		return domain.NewRawExtraction(domain.Field{Key: domain.FieldError, Value: domain.ErrorValue(failureMessage)})
	}

	ext := ParseReply(reply)
	if ext.Truthy(domain.FieldParseError) {
		slog.Warn("extraction_reply_unparsed", "operation", operation, "reply_len", len(reply))
	}
	return ext
}
