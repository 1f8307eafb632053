// Package memory keeps the document collection in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kirillkom/dossier/internal/core/domain"
)

// Collection is safe for concurrent use. Each append publishes a new slice,
// so List snapshots never see a partial batch.
type Collection struct {
	mu   sync.RWMutex
	docs []domain.Document
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) AppendBatch(_ context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]domain.Document, 0, len(c.docs)+len(docs))
	next = append(next, c.docs...)
	next = append(next, docs...)
	c.docs = next
	return nil
}

func (c *Collection) List(context.Context) ([]domain.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Document, len(c.docs))
	copy(out, c.docs)
	return out, nil
}

func (c *Collection) GetByID(_ context.Context, id string) (*domain.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.docs {
		if c.docs[i].ID == id {
			doc := c.docs[i]
			return &doc, nil
		}
	}
	return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
}
