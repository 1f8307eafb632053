package ollama

import (
	"context"
	"encoding/base64"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	model      string
	httpClient httpDoer
}

// New returns a client for the Ollama generate API. A zero timeout keeps the
// two-minute default, which covers cold model loads.
func New(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: newHTTPClient(timeout),
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Format string   `json:"format,omitempty"`
	Images []string `json:"images,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: "json",
	})
}

// GenerateVision sends the image inline; llava-style models accept JPEG and PNG.
func (c *Client) GenerateVision(ctx context.Context, prompt, _ string, image []byte) (string, error) {
	return c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Format: "json",
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	})
}

func (c *Client) generate(ctx context.Context, req generateRequest) (string, error) {
	var response generateResponse
	if err := c.postJSON(ctx, "/api/generate", req, &response, "generate"); err != nil {
		return "", wrapTemporaryIfNeeded("ollama generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}
