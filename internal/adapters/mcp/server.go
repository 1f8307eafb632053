// Package mcpadapter exposes document search and classification as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/dossier/internal/core/classification"
	"github.com/kirillkom/dossier/internal/core/domain"
	"github.com/kirillkom/dossier/internal/core/ports"
)

const (
	ToolSearchDocuments      = "search_documents"
	ToolClassifyDocumentType = "classify_document_type"
	ToolDocumentDetails      = "document_details"
)

type Tools struct {
	query ports.DocumentQueryService
}

func NewTools(query ports.DocumentQueryService) *Tools {
	return &Tools{query: query}
}

// NewServer registers the document tools on a fresh MCP server.
func NewServer(query ports.DocumentQueryService, version string) *server.MCPServer {
	s := server.NewMCPServer("dossier", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	NewTools(query).Register(s)
	return s
}

func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(ToolSearchDocuments,
		mcp.WithDescription("Search stored documents by name or tag. An empty query lists every document."),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against names and tags")),
	), t.SearchDocuments)

	s.AddTool(mcp.NewTool(ToolClassifyDocumentType,
		mcp.WithDescription("Classify a document type string into a category and French tags."),
		mcp.WithString("document_type", mcp.Required(), mcp.Description("Document type as reported by extraction, e.g. \"Facture EDF\"")),
	), t.ClassifyDocumentType)

	s.AddTool(mcp.NewTool(ToolDocumentDetails,
		mcp.WithDescription("Show the extracted fields and validation result of one document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id")),
	), t.DocumentDetails)
}

type documentSummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   domain.Category `json:"category"`
	Status     string          `json:"status"`
	ValidUntil string          `json:"validUntil"`
	Tags       []string        `json:"tags"`
}

func (t *Tools) SearchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := t.query.Search(ctx, req.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("search failed", err), nil
	}
	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentSummary{
			ID:         d.ID,
			Name:       d.Name,
			Category:   d.Category,
			Status:     string(d.Status),
			ValidUntil: d.ValidUntil,
			Tags:       d.Tags,
		})
	}
	return jsonResult(map[string]any{"count": len(out), "documents": out})
}

func (t *Tools) ClassifyDocumentType(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docType, err := req.RequireString("document_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category, tags := ClassifyType(docType)
	return jsonResult(map[string]any{"category": category, "tags": tags})
}

func (t *Tools) DocumentDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	details, err := t.query.Details(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("document %q not found", id)), nil
		}
		return mcp.NewToolResultErrorFromErr("details failed", err), nil
	}
	return jsonResult(map[string]any{
		"name":       details.Document.Name,
		"fields":     details.Fields,
		"validation": details.Validation,
	})
}

// ClassifyType runs the classifier and tag generator over a bare type string.
func ClassifyType(docType string) (domain.Category, []string) {
	ext := domain.NewRawExtraction()
	if s := strings.TrimSpace(docType); s != "" {
		ext.Set(domain.FieldDocumentType, domain.StringValue(s))
	}
	category := classification.Classify(ext)
	return category, classification.GenerateTags(ext, category)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
