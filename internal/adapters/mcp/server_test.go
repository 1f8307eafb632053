package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/dossier/internal/core/domain"
)

type queryFake struct {
	docs    []domain.Document
	details *domain.DocumentDetails
	err     error
	lastQ   string
}

func (f *queryFake) List(context.Context) ([]domain.Document, error) { return f.docs, f.err }

func (f *queryFake) Search(_ context.Context, q string) ([]domain.Document, error) {
	f.lastQ = q
	return f.docs, f.err
}

func (f *queryFake) GetByID(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrDocumentNotFound
}

func (f *queryFake) Details(context.Context, string) (*domain.DocumentDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestClassifyDocumentTypeTool(t *testing.T) {
	tools := NewTools(&queryFake{})
	res, err := tools.ClassifyDocumentType(context.Background(), callRequest(ToolClassifyDocumentType, map[string]any{
		"document_type": "Facture EDF",
	}))
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}

	var out struct {
		Category domain.Category `json:"category"`
		Tags     []string        `json:"tags"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Category != domain.CategoryInvoice {
		t.Fatalf("expected invoice_like, got %s", out.Category)
	}
	want := map[string]bool{"Facture Électricité": true, "Justificatif de Domicile": true}
	if len(out.Tags) != len(want) {
		t.Fatalf("unexpected tags %v", out.Tags)
	}
	for _, tag := range out.Tags {
		if !want[tag] {
			t.Fatalf("unexpected tag %q in %v", tag, out.Tags)
		}
	}
}

func TestClassifyDocumentTypeRequiresArgument(t *testing.T) {
	res, err := NewTools(&queryFake{}).ClassifyDocumentType(context.Background(), callRequest(ToolClassifyDocumentType, nil))
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool-level error result")
	}
}

func TestClassifyTypeEmptyFallsBackToGeneric(t *testing.T) {
	category, tags := ClassifyType("   ")
	if category != domain.CategoryGeneric || len(tags) != 1 || tags[0] != "Document Important" {
		t.Fatalf("unexpected classification %s %v", category, tags)
	}
}

func TestSearchDocumentsTool(t *testing.T) {
	q := &queryFake{docs: []domain.Document{
		{ID: "1", Name: "Passeport ABC.jpg", Category: domain.CategoryIdentity, Status: domain.StatusVerified, Tags: []string{"Passeport"}},
	}}
	res, err := NewTools(q).SearchDocuments(context.Background(), callRequest(ToolSearchDocuments, map[string]any{"query": "passeport"}))
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	if q.lastQ != "passeport" {
		t.Fatalf("expected query to be forwarded, got %q", q.lastQ)
	}
	var out struct {
		Count     int               `json:"count"`
		Documents []documentSummary `json:"documents"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Count != 1 || out.Documents[0].Name != "Passeport ABC.jpg" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestDocumentDetailsToolNotFound(t *testing.T) {
	q := &queryFake{err: domain.WrapError(domain.ErrDocumentNotFound, "details", errors.New("id=x"))}
	res, err := NewTools(q).DocumentDetails(context.Background(), callRequest(ToolDocumentDetails, map[string]any{"id": "x"}))
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected error result for missing document")
	}
}

func TestDocumentDetailsTool(t *testing.T) {
	q := &queryFake{details: &domain.DocumentDetails{
		Document:   domain.Document{Name: "Carte.pdf"},
		Fields:     []domain.DetailField{{Label: "Document Type", Value: "Carte Nationale d'Identité"}},
		Validation: domain.Validation{IsValid: true},
	}}
	res, err := NewTools(q).DocumentDetails(context.Background(), callRequest(ToolDocumentDetails, map[string]any{"id": "seed-1"}))
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	var out struct {
		Name       string               `json:"name"`
		Fields     []domain.DetailField `json:"fields"`
		Validation domain.Validation    `json:"validation"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Name != "Carte.pdf" || len(out.Fields) != 1 || !out.Validation.IsValid {
		t.Fatalf("unexpected details: %+v", out)
	}
}
