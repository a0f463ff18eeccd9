package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deb-sahu/docu-query/internal/config"
	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/index"
	"github.com/deb-sahu/docu-query/internal/core/ports"
	"github.com/deb-sahu/docu-query/internal/core/registry"
	"github.com/deb-sahu/docu-query/internal/core/usecase"
	"github.com/deb-sahu/docu-query/internal/infrastructure/chunking"
	"github.com/deb-sahu/docu-query/internal/infrastructure/events/nats"
	"github.com/deb-sahu/docu-query/internal/infrastructure/extractor"
	"github.com/deb-sahu/docu-query/internal/infrastructure/repository/postgres"
	"github.com/deb-sahu/docu-query/internal/infrastructure/resilience"
	"github.com/deb-sahu/docu-query/internal/infrastructure/storage/localfs"
	"github.com/deb-sahu/docu-query/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Registry *registry.Registry

	IngestUC  ports.DocumentIngestor
	ManageUC  ports.DocumentManager
	ExtractUC ports.PassageExtractor
	AnswerUC  ports.AnswerService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)

	files, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	var closers []func()

	var meta ports.MetadataStore = nopMetadataStore{}
	var repo *postgres.MetadataRepository
	if cfg.PostgresDSN != "" {
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo = postgres.NewMetadataRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		meta = repo
		closers = append(closers, func() { _ = db.Close() })
	}

	var events ports.EventPublisher = nopPublisher{}
	if cfg.NATSURL != "" {
		publisher, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
		closers = append(closers, publisher.Close)
	}

	reg := registry.New()
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	texts := extractor.New()

	ingestUC := usecase.NewIngestUseCase(files, texts, chunker, reg, meta, events, logger)
	manageUC := usecase.NewManageUseCase(reg, files, meta, events, logger)
	searchUC := usecase.NewSearchUseCase(reg, cfg.TopK)
	answerUC := usecase.NewAnswerUseCase(searchUC, usecase.ComposePolicy{
		HighThreshold:   cfg.ConfidenceHigh,
		MediumThreshold: cfg.ConfidenceMedium,
		MaxAnswerRunes:  cfg.MaxAnswerChars,
	}, cfg.AnswerOverfetch)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  reg,
		IngestUC:  ingestUC,
		ManageUC:  manageUC,
		ExtractUC: searchUC,
		AnswerUC:  answerUC,
		closeFn: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}

	if repo != nil {
		app.recoverDocuments(ctx, repo, files, texts, chunker)
	}
	return app, nil
}

// recoverDocuments rebuilds the in-memory registry from the metadata table
// after a restart. Rows whose backing file is gone are dropped from the
// table; pasted text has no file and cannot be recovered.
func (a *App) recoverDocuments(
	ctx context.Context,
	repo *postgres.MetadataRepository,
	files ports.ObjectStorage,
	texts ports.TextExtractor,
	chunker ports.Chunker,
) {
	stored, err := repo.List(ctx)
	if err != nil {
		a.Logger.Warn("list stored document metadata", "error", err)
		return
	}

	recovered := 0
	for _, doc := range stored {
		if doc.StoragePath == "" {
			if err := repo.Delete(ctx, doc.Meta.ID); err != nil {
				a.Logger.Warn("drop unrecoverable metadata", "doc_id", doc.Meta.ID, "error", err)
			}
			continue
		}
		if err := a.recoverOne(ctx, doc, files, texts, chunker); err != nil {
			a.Logger.Warn("recover document", "doc_id", doc.Meta.ID, "error", err)
			if domain.IsKind(err, domain.ErrNotFound) {
				if err := repo.Delete(ctx, doc.Meta.ID); err != nil {
					a.Logger.Warn("drop unrecoverable metadata", "doc_id", doc.Meta.ID, "error", err)
				}
			}
			continue
		}
		recovered++
	}
	if recovered > 0 {
		a.Logger.Info("recovered documents from metadata", "count", recovered)
	}
}

func (a *App) recoverOne(
	ctx context.Context,
	doc postgres.StoredDocument,
	files ports.ObjectStorage,
	texts ports.TextExtractor,
	chunker ports.Chunker,
) error {
	reader, err := files.Open(ctx, doc.StoragePath)
	if err != nil {
		return err
	}
	defer reader.Close()

	text, err := texts.Extract(ctx, doc.Meta.Kind, reader)
	if err != nil {
		return err
	}
	chunks := chunker.Split(text)
	if len(chunks) == 0 {
		return fmt.Errorf("stored document produced no chunks")
	}

	return a.Registry.Add(&registry.Document{
		ID:          doc.Meta.ID,
		Title:       doc.Meta.Title,
		Kind:        doc.Meta.Kind,
		StoragePath: doc.StoragePath,
		Chunks:      chunks,
		Index:       index.New(chunks),
		CreatedAt:   doc.Meta.CreatedAt,
	})
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

type nopMetadataStore struct{}

func (nopMetadataStore) Save(context.Context, domain.DocumentMeta, string) error { return nil }
func (nopMetadataStore) Delete(context.Context, string) error                    { return nil }
func (nopMetadataStore) DeleteAll(context.Context) error                         { return nil }

type nopPublisher struct{}

func (nopPublisher) DocumentIndexed(context.Context, string, int) error { return nil }
func (nopPublisher) DocumentDeleted(context.Context, string) error      { return nil }
func (nopPublisher) DocumentsCleared(context.Context, int) error        { return nil }
func (nopPublisher) Close()                                             {}
