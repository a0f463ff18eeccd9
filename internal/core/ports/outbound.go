package ports

import (
	"context"
	"io"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

// Chunker splits normalized text into overlapping windows.
type Chunker interface {
	Split(text string) []string
}

// TextExtractor turns an uploaded document body into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, kind domain.DocumentKind, body io.Reader) (string, error)
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove reports a missing file as ErrNotFound so callers can tell the
	// benign case from an I/O failure worth logging.
	Remove(ctx context.Context, key string) error
}

// MetadataStore persists document bookkeeping for recovery. The registry,
// not the store, is the source of truth for queries.
type MetadataStore interface {
	Save(ctx context.Context, meta domain.DocumentMeta, storagePath string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// EventPublisher emits fire-and-forget document lifecycle notifications.
type EventPublisher interface {
	DocumentIndexed(ctx context.Context, id string, chunkCount int) error
	DocumentDeleted(ctx context.Context, id string) error
	DocumentsCleared(ctx context.Context, count int) error
	Close()
}
