// Package registry owns the in-memory document collection. It is the only
// component that creates and destroys documents; everything else borrows
// read access.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/index"
)

// Document is a registered document together with its similarity index.
// Chunks and index are immutable once registered; re-chunking means
// removing and re-adding the document.
type Document struct {
	ID          string
	Title       string
	Kind        domain.DocumentKind
	StoragePath string
	Chunks      []string
	Index       *index.Index
	CreatedAt   time.Time
}

// Registry is a lock-guarded, insertion-ordered document store. Searches
// vastly outnumber mutations, so reads share an RLock.
type Registry struct {
	mu    sync.RWMutex
	docs  map[string]*Document
	order []string
}

func New() *Registry {
	return &Registry{docs: make(map[string]*Document)}
}

// Add registers a document. The chunk list and index must agree in size;
// ids are caller-generated and must be unique.
func (r *Registry) Add(doc *Document) error {
	if doc == nil || doc.ID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "register document", errors.New("missing document id"))
	}
	if doc.Index == nil || len(doc.Chunks) != doc.Index.Size() {
		return domain.WrapError(domain.ErrInvalidInput, "register document",
			fmt.Errorf("chunk/index size mismatch for %s", doc.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "register document",
			fmt.Errorf("duplicate document id %s", doc.ID))
	}
	r.docs[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	return nil
}

// Get returns the document or ErrNotFound.
func (r *Registry) Get(id string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("document %s", id))
	}
	return doc, nil
}

// Remove deletes the document and returns it, or ErrNotFound. Deleting any
// backing file or metadata is the caller's job.
func (r *Registry) Remove(id string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "remove document", fmt.Errorf("document %s", id))
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return doc, nil
}

// Clear removes every document and returns them in insertion order so the
// caller can release backing resources.
func (r *Registry) Clear() []*Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := make([]*Document, 0, len(r.order))
	for _, id := range r.order {
		removed = append(removed, r.docs[id])
	}
	r.docs = make(map[string]*Document)
	r.order = nil
	return removed
}

// List returns document metadata in insertion order.
func (r *Registry) List() []domain.DocumentMeta {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DocumentMeta, 0, len(r.order))
	for _, id := range r.order {
		doc := r.docs[id]
		out = append(out, domain.DocumentMeta{
			ID:         doc.ID,
			Title:      doc.Title,
			ChunkCount: len(doc.Chunks),
			Kind:       doc.Kind,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return out
}

// Snapshot returns all documents in insertion order. When ids is non-empty
// the result is restricted to those ids; a filter that matches nothing is
// ErrNotFound, distinguishing "bad filter" from "empty registry".
func (r *Registry) Snapshot(ids []string) ([]*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(ids) == 0 {
		out := make([]*Document, 0, len(r.order))
		for _, id := range r.order {
			out = append(out, r.docs[id])
		}
		return out, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]*Document, 0, len(ids))
	for _, id := range r.order {
		if _, ok := wanted[id]; ok {
			out = append(out, r.docs[id])
		}
	}
	if len(out) == 0 {
		return nil, domain.WrapError(domain.ErrNotFound, "filter documents", errors.New("specified documents not found"))
	}
	return out, nil
}

// Len reports the number of registered documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
