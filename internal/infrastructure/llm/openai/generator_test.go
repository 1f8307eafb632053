package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

const okBody = `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"documentType\":\"RIB\"}"},"finish_reason":"stop"}]}`

func TestGenerateTextSendsPlainMessage(t *testing.T) {
	var captured capturedRequest
	server := newServer(t, http.StatusOK, okBody, &captured)

	out, err := New("key", server.URL+"/v1", "gpt-test").GenerateText(context.Background(), "extract this")
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if out != `{"documentType":"RIB"}` {
		t.Fatalf("unexpected reply %q", out)
	}
	if captured.Model != "gpt-test" || len(captured.Messages) != 1 {
		t.Fatalf("unexpected request: %+v", captured)
	}
	if string(captured.Messages[0].Content) != `"extract this"` {
		t.Fatalf("expected string content, got %s", captured.Messages[0].Content)
	}
}

func TestGenerateVisionSendsDataURL(t *testing.T) {
	var captured capturedRequest
	server := newServer(t, http.StatusOK, okBody, &captured)

	if _, err := New("key", server.URL+"/v1", "").GenerateVision(context.Background(), "analyze", "image/png", []byte("png")); err != nil {
		t.Fatalf("GenerateVision() error = %v", err)
	}
	content := string(captured.Messages[0].Content)
	if !strings.Contains(content, `"type":"image_url"`) || !strings.Contains(content, "data:image/png;base64,cG5n") {
		t.Fatalf("expected image part with data url, got %s", content)
	}
	if captured.Model != DefaultModel {
		t.Fatalf("expected default model, got %s", captured.Model)
	}
}

func TestGenerateClassifiesRateLimit(t *testing.T) {
	server := newServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, nil)

	_, err := New("key", server.URL+"/v1", "").GenerateText(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error")
	}
	if code, ok := StatusOf(err); !ok || code != http.StatusTooManyRequests {
		t.Fatalf("StatusOf() = %d, %v (err=%v)", code, ok, err)
	}
	if !ClassifyError(err).Retryable {
		t.Fatalf("429 must be retryable")
	}
}

func TestGenerateNoChoices(t *testing.T) {
	server := newServer(t, http.StatusOK, `{"id":"1","choices":[]}`, nil)
	if _, err := New("key", server.URL+"/v1", "").GenerateText(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}
