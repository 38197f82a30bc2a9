package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrateSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS artifacts (
	key TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	doc_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_docs (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	normalized TEXT NOT NULL,
	sentences TEXT NOT NULL,
	tokens TEXT NOT NULL,
	tagged TEXT NOT NULL DEFAULT 'null',
	PRIMARY KEY(run_id, idx),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// migrateSchema adds columns missing from databases created by older builds
func migrateSchema(ctx context.Context, db *sql.DB) error {
	has, err := hasColumn(ctx, db, "run_docs", "tagged")
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = db.ExecContext(ctx, `ALTER TABLE run_docs ADD COLUMN tagged TEXT NOT NULL DEFAULT 'null'`)
	return err
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// PutArtifact inserts or replaces an artifact payload
func (s *sqliteStore) PutArtifact(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("%w: empty artifact key", internalerr.ErrInvalidConfig)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO artifacts (key, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	data=excluded.data,
	updated_at=excluded.updated_at;
`, key, data, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// GetArtifact returns the payload stored under key
func (s *sqliteStore) GetArtifact(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM artifacts WHERE key=?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// ListArtifacts returns all artifacts ordered by key
func (s *sqliteStore) ListArtifacts(ctx context.Context) ([]store.ArtifactInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, length(data), updated_at FROM artifacts ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ArtifactInfo
	for rows.Next() {
		var (
			info    store.ArtifactInfo
			updated string
		)
		if err := rows.Scan(&info.Key, &info.Size, &updated); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// SaveRun writes a run and all its documents in one transaction. Saving an
// existing run id replaces it.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty run id", internalerr.ErrInvalidConfig)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// foreign_keys is per connection, so run_docs is cleared explicitly
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_docs WHERE run_id=?`, r.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, r.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, doc_count) VALUES (?, ?, ?)`,
		r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), len(r.Docs),
	); err != nil {
		return err
	}

	if err := insertRunDocs(ctx, tx, r.ID, r.Docs); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRunDocs(ctx context.Context, tx *sql.Tx, runID string, docs []store.Doc) error {
	if len(docs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_docs (run_id, idx, normalized, sentences, tokens, tagged) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range docs {
		sentJSON, err := json.Marshal(nonNilStrings(d.Sentences))
		if err != nil {
			return err
		}
		tokJSON, err := json.Marshal(nonNilTokens(d.Tokens))
		if err != nil {
			return err
		}
		// nil encodes as null so untagged docs read back as nil
		tagJSON, err := json.Marshal(d.Tagged)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, d.Index, d.Normalized, string(sentJSON), string(tokJSON), string(tagJSON)); err != nil {
			return err
		}
	}
	return nil
}

// GetRun loads a run with its documents in input order
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		run     store.Run
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, created_at FROM runs WHERE id=?`, id).Scan(&run.ID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, normalized, sentences, tokens, tagged FROM run_docs WHERE run_id=? ORDER BY idx`, id)
	if err != nil {
		return store.Run{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d        store.Doc
			sentJSON string
			tokJSON  string
			tagJSON  string
		)
		if err := rows.Scan(&d.Index, &d.Normalized, &sentJSON, &tokJSON, &tagJSON); err != nil {
			return store.Run{}, err
		}
		if err := json.Unmarshal([]byte(sentJSON), &d.Sentences); err != nil {
			return store.Run{}, fmt.Errorf("decode sentences of doc %d: %w", d.Index, err)
		}
		if err := json.Unmarshal([]byte(tokJSON), &d.Tokens); err != nil {
			return store.Run{}, fmt.Errorf("decode tokens of doc %d: %w", d.Index, err)
		}
		if err := json.Unmarshal([]byte(tagJSON), &d.Tagged); err != nil {
			return store.Run{}, fmt.Errorf("decode tags of doc %d: %w", d.Index, err)
		}
		run.Docs = append(run.Docs, d)
	}
	return run, rows.Err()
}

// ListRuns returns the most recent runs first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, doc_count FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunInfo
	for rows.Next() {
		var (
			info    store.RunInfo
			created string
		)
		if err := rows.Scan(&info.ID, &created, &info.DocCount); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nonNilTokens(in [][]string) [][]string {
	if in == nil {
		return [][]string{}
	}
	return in
}
