// Package openai adapts OpenAI-compatible chat completion APIs to the
// extraction Generator.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/dossier/internal/infrastructure/resilience"
)

const DefaultModel = "gpt-4o-mini"

type Generator struct {
	client *goopenai.Client
	model  string
}

// New builds a generator; baseURL may point at any OpenAI-compatible server.
func New(apiKey, baseURL, model string) *Generator {
	cfg := goopenai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: goopenai.NewClientWithConfig(cfg), model: model}
}

func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})
}

func (g *Generator) GenerateVision(ctx context.Context, prompt, mimeType string, image []byte) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	return g.complete(ctx, goopenai.ChatCompletionMessage{
		Role: goopenai.ChatMessageRoleUser,
		MultiContent: []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
			{
				Type:     goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{URL: dataURL, Detail: goopenai.ImageURLDetailAuto},
			},
		},
	})
}

func (g *Generator) complete(ctx context.Context, msg goopenai.ChatCompletionMessage) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    g.model,
		Messages: []goopenai.ChatCompletionMessage{msg},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// StatusOf reads the HTTP status carried by go-openai errors.
func StatusOf(err error) (int, bool) {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

var ClassifyError = resilience.HTTPClassifier(StatusOf)
