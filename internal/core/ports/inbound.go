package ports

import (
	"context"
	"io"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload and direct
// text input.
type DocumentIngestor interface {
	AddDocument(ctx context.Context, filename string, body io.Reader) (domain.DocumentMeta, error)
	AddText(ctx context.Context, title, text string) (domain.DocumentMeta, error)
}

// DocumentManager is the inbound contract for registry lifecycle.
type DocumentManager interface {
	RemoveDocument(ctx context.Context, id string) error
	ClearAll(ctx context.Context) (int, error)
	ListDocuments(ctx context.Context) []domain.DocumentMeta
}

// PassageExtractor returns raw ranked passages without answer composition.
type PassageExtractor interface {
	Extract(ctx context.Context, query string, topK int, docIDs []string) ([]domain.ScoredPassage, error)
}

// AnswerService runs the full retrieval and composition pipeline.
type AnswerService interface {
	Answer(ctx context.Context, query string, topK int, docIDs []string) (*domain.AnswerResult, error)
}
