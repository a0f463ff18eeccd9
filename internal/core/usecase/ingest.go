package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/index"
	"github.com/deb-sahu/docu-query/internal/core/ports"
	"github.com/deb-sahu/docu-query/internal/core/registry"
)

const defaultTextTitle = "Direct Text Input"

// IngestUseCase turns uploads and pasted text into registered, searchable
// documents. Chunking and indexing happen synchronously; a document is
// either fully indexed or not registered at all.
type IngestUseCase struct {
	files     ports.ObjectStorage
	extractor ports.TextExtractor
	chunker   ports.Chunker
	registry  *registry.Registry
	meta      ports.MetadataStore
	events    ports.EventPublisher
	logger    *slog.Logger
}

func NewIngestUseCase(
	files ports.ObjectStorage,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	reg *registry.Registry,
	meta ports.MetadataStore,
	events ports.EventPublisher,
	logger *slog.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		files:     files,
		extractor: extractor,
		chunker:   chunker,
		registry:  reg,
		meta:      meta,
		events:    events,
		logger:    logger,
	}
}

// AddDocument saves the upload, extracts its text, chunks and indexes it,
// and registers the result. Empty or unreadable documents are rejected and
// the stored file is cleaned up.
func (uc *IngestUseCase) AddDocument(ctx context.Context, filename string, body io.Reader) (domain.DocumentMeta, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := domain.KindForExtension(ext)
	if !ok {
		return domain.DocumentMeta{}, domain.WrapError(domain.ErrInvalidInput, "add document",
			fmt.Errorf("unsupported file type %q, supported formats: .pdf, .docx, .xlsx, .txt", ext))
	}

	id := uuid.NewString()
	storageKey := id + ext
	if err := uc.files.Save(ctx, storageKey, body); err != nil {
		return domain.DocumentMeta{}, fmt.Errorf("save upload: %w", err)
	}

	text, err := uc.extractText(ctx, kind, storageKey)
	if err != nil {
		uc.removeFile(ctx, storageKey)
		return domain.DocumentMeta{}, err
	}

	return uc.register(ctx, id, filename, kind, storageKey, text)
}

// AddText indexes pasted text without any backing file.
func (uc *IngestUseCase) AddText(ctx context.Context, title, text string) (domain.DocumentMeta, error) {
	if strings.TrimSpace(text) == "" {
		return domain.DocumentMeta{}, domain.WrapError(domain.ErrInvalidInput, "add text",
			errors.New("text cannot be empty"))
	}
	if strings.TrimSpace(title) == "" {
		title = defaultTextTitle
	}
	return uc.register(ctx, uuid.NewString(), title, domain.KindRawText, "", text)
}

func (uc *IngestUseCase) extractText(ctx context.Context, kind domain.DocumentKind, storageKey string) (string, error) {
	reader, err := uc.files.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("open stored upload: %w", err)
	}
	defer reader.Close()

	text, err := uc.extractor.Extract(ctx, kind, reader)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrEmptyInput, "extract text",
			errors.New("document appears to be empty or unreadable"))
	}
	return text, nil
}

func (uc *IngestUseCase) register(ctx context.Context, id, title string, kind domain.DocumentKind, storageKey, text string) (domain.DocumentMeta, error) {
	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		uc.removeFile(ctx, storageKey)
		return domain.DocumentMeta{}, domain.WrapError(domain.ErrEmptyInput, "chunk text",
			errors.New("text too short to process"))
	}

	doc := &registry.Document{
		ID:          id,
		Title:       title,
		Kind:        kind,
		StoragePath: storageKey,
		Chunks:      chunks,
		Index:       index.New(chunks),
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.registry.Add(doc); err != nil {
		uc.removeFile(ctx, storageKey)
		return domain.DocumentMeta{}, err
	}

	meta := domain.DocumentMeta{
		ID:         doc.ID,
		Title:      doc.Title,
		ChunkCount: len(chunks),
		Kind:       doc.Kind,
		CreatedAt:  doc.CreatedAt,
	}

	// Bookkeeping failures degrade to warnings; the document is already
	// searchable and the registry is the source of truth.
	if err := uc.meta.Save(ctx, meta, storageKey); err != nil {
		uc.logger.Warn("persist document metadata", "doc_id", id, "error", err)
	}
	if err := uc.events.DocumentIndexed(ctx, id, len(chunks)); err != nil {
		uc.logger.Warn("publish indexed event", "doc_id", id, "error", err)
	}
	return meta, nil
}

func (uc *IngestUseCase) removeFile(ctx context.Context, storageKey string) {
	if storageKey == "" {
		return
	}
	if err := uc.files.Remove(ctx, storageKey); err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		uc.logger.Warn("remove stored upload", "storage_key", storageKey, "error", err)
	}
}
