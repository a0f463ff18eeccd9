package usecase

import (
	"context"
	"log/slog"

	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/ports"
	"github.com/deb-sahu/docu-query/internal/core/registry"
)

// ManageUseCase handles document deletion and listing. Removal from the
// registry is authoritative; releasing the backing file, metadata row, and
// notification are best-effort follow-ups.
type ManageUseCase struct {
	registry *registry.Registry
	files    ports.ObjectStorage
	meta     ports.MetadataStore
	events   ports.EventPublisher
	logger   *slog.Logger
}

func NewManageUseCase(
	reg *registry.Registry,
	files ports.ObjectStorage,
	meta ports.MetadataStore,
	events ports.EventPublisher,
	logger *slog.Logger,
) *ManageUseCase {
	return &ManageUseCase{
		registry: reg,
		files:    files,
		meta:     meta,
		events:   events,
		logger:   logger,
	}
}

// RemoveDocument deletes one document; ErrNotFound when the id is unknown.
func (uc *ManageUseCase) RemoveDocument(ctx context.Context, id string) error {
	doc, err := uc.registry.Remove(id)
	if err != nil {
		return err
	}
	uc.releaseFile(ctx, doc)
	if err := uc.meta.Delete(ctx, id); err != nil {
		uc.logger.Warn("delete document metadata", "doc_id", id, "error", err)
	}
	if err := uc.events.DocumentDeleted(ctx, id); err != nil {
		uc.logger.Warn("publish deleted event", "doc_id", id, "error", err)
	}
	return nil
}

// ClearAll empties the registry and reports how many documents it removed.
func (uc *ManageUseCase) ClearAll(ctx context.Context) (int, error) {
	removed := uc.registry.Clear()
	for _, doc := range removed {
		uc.releaseFile(ctx, doc)
	}
	if err := uc.meta.DeleteAll(ctx); err != nil {
		uc.logger.Warn("delete all document metadata", "error", err)
	}
	if err := uc.events.DocumentsCleared(ctx, len(removed)); err != nil {
		uc.logger.Warn("publish cleared event", "error", err)
	}
	return len(removed), nil
}

// ListDocuments returns registry metadata in insertion order.
func (uc *ManageUseCase) ListDocuments(_ context.Context) []domain.DocumentMeta {
	return uc.registry.List()
}

func (uc *ManageUseCase) releaseFile(ctx context.Context, doc *registry.Document) {
	if doc.StoragePath == "" {
		return
	}
	err := uc.files.Remove(ctx, doc.StoragePath)
	if err == nil || domain.IsKind(err, domain.ErrNotFound) {
		return
	}
	uc.logger.Warn("remove document file", "doc_id", doc.ID, "storage_key", doc.StoragePath, "error", err)
}
