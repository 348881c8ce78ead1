// Package sqlite provides the SQLite-backed ingest catalog.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/grounded-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.IngestCatalog = (*Catalog)(nil)

// Catalog is the dedup ledger for the append-only vector index. Each row
// records one fully indexed document version, keyed by (source, content
// hash); re-running ingest skips versions already present.
type Catalog struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS ingested_documents (
	source        TEXT NOT NULL,
	content_hash  TEXT NOT NULL,
	run_id        TEXT NOT NULL,
	chunks        INTEGER NOT NULL,
	ingested_at   TIMESTAMP NOT NULL,
	PRIMARY KEY (source, content_hash)
);
`

// NewCatalog opens (or creates) the catalog database under dataDir.
func NewCatalog(dataDir string) (*Catalog, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "catalog.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	return &Catalog{db: db, path: dbPath}, nil
}

// Seen reports whether this exact document version is already indexed.
func (c *Catalog) Seen(ctx context.Context, source, contentHash string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx,
		`SELECT 1 FROM ingested_documents WHERE source = ? AND content_hash = ?`,
		source, contentHash,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying catalog: %w", err)
	}
	return true, nil
}

// Record stores the entry after the document is fully appended.
func (c *Catalog) Record(ctx context.Context, entry driven.CatalogEntry) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO ingested_documents
		 (source, content_hash, run_id, chunks, ingested_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Source, entry.ContentHash, entry.RunID, entry.Chunks, entry.IngestedAt,
	)
	if err != nil {
		return fmt.Errorf("recording catalog entry: %w", err)
	}
	return nil
}

// Entries lists all recorded documents, newest first.
func (c *Catalog) Entries(ctx context.Context) ([]driven.CatalogEntry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT source, content_hash, run_id, chunks, ingested_at
		 FROM ingested_documents ORDER BY ingested_at DESC, source`)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	defer rows.Close()

	var entries []driven.CatalogEntry
	for rows.Next() {
		var e driven.CatalogEntry
		if err := rows.Scan(&e.Source, &e.ContentHash, &e.RunID, &e.Chunks, &e.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}
