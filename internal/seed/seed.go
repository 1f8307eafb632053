// Package seed provides the demo documents loaded into an empty collection.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/dossier/internal/core/domain"
)

//go:embed documents.yaml
var documentsYAML []byte

func Documents() ([]domain.Document, error) {
	return Parse(documentsYAML)
}

func Parse(data []byte) ([]domain.Document, error) {
	var docs []domain.Document
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode seed documents: %w", err)
	}
	for i, doc := range docs {
		if doc.ID == "" || doc.Name == "" {
			return nil, fmt.Errorf("seed document %d: id and name are required", i)
		}
		if !doc.Category.Valid() {
			return nil, fmt.Errorf("seed document %s: unknown category %q", doc.ID, doc.Category)
		}
		if len(doc.Tags) == 0 {
			return nil, fmt.Errorf("seed document %s: tags are required", doc.ID)
		}
	}
	return docs, nil
}
