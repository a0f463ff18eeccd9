package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

// MetadataRepository persists document metadata alongside the in-memory
// registry. The registry stays the source of truth while the process runs;
// the table exists so a restart can re-ingest stored files.
type MetadataRepository struct {
	db *sql.DB
}

func NewMetadataRepository(db *sql.DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *MetadataRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_metadata (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	kind TEXT NOT NULL,
	chunk_count INTEGER NOT NULL,
	storage_path TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_document_metadata_created_at ON document_metadata(created_at);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *MetadataRepository) Save(ctx context.Context, meta domain.DocumentMeta, storagePath string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO document_metadata (id, title, kind, chunk_count, storage_path, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title, kind = EXCLUDED.kind, chunk_count = EXCLUDED.chunk_count, storage_path = EXCLUDED.storage_path
`, meta.ID, meta.Title, string(meta.Kind), meta.ChunkCount, storagePath, meta.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document metadata: %w", err)
	}
	return nil
}

func (r *MetadataRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM document_metadata WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}
	return nil
}

func (r *MetadataRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM document_metadata`)
	if err != nil {
		return fmt.Errorf("delete all document metadata: %w", err)
	}
	return nil
}

// StoredDocument is one recoverable row: what was indexed and where the
// original file lives.
type StoredDocument struct {
	Meta        domain.DocumentMeta
	StoragePath string
}

// List returns all rows in insertion order, oldest first.
func (r *MetadataRepository) List(ctx context.Context) ([]StoredDocument, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, kind, chunk_count, storage_path, created_at
FROM document_metadata
ORDER BY created_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list document metadata: %w", err)
	}
	defer rows.Close()

	var out []StoredDocument
	for rows.Next() {
		var doc StoredDocument
		var kind string
		if err := rows.Scan(&doc.Meta.ID, &doc.Meta.Title, &kind, &doc.Meta.ChunkCount, &doc.StoragePath, &doc.Meta.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document metadata: %w", err)
		}
		doc.Meta.Kind = domain.DocumentKind(kind)
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document metadata: %w", err)
	}
	return out, nil
}
