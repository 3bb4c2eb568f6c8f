// Package sqlite stores the registry in a single SQLite file, for single-node
// deployments and the CLI.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"namescreen/internal/registry"
	"namescreen/internal/screening/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS name_records (
	id          TEXT PRIMARY KEY,
	record_type TEXT NOT NULL,
	tokens      TEXT NOT NULL,
	bucket_key  TEXT NOT NULL,
	reason      TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS name_records_bucket_idx ON name_records (record_type, bucket_key);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite registry: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite registry schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps the table content in one transaction.
func (s *Store) Replace(ctx context.Context, records []models.NameRecord) error {
	if err := registry.ValidateSnapshot(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registry refresh: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM name_records`); err != nil {
		return fmt.Errorf("clear registry: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO name_records (id, record_type, tokens, bucket_key, reason, source)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare registry insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		tokens, err := json.Marshal(rec.Tokens)
		if err != nil {
			return fmt.Errorf("encode tokens of %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, string(rec.Type), string(tokens), rec.BucketKey, rec.Reason, rec.Source); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registry refresh: %w", err)
	}
	return nil
}

func (s *Store) QueryByBucket(ctx context.Context, bucketKey string, recordType models.RecordType) ([]models.NameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, tokens, bucket_key, reason, source
		FROM name_records
		WHERE record_type = ? AND bucket_key = ?
		ORDER BY id`, string(recordType), bucketKey)
	if err != nil {
		return nil, fmt.Errorf("query bucket: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) QueryByType(ctx context.Context, recordType models.RecordType) ([]models.NameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, tokens, bucket_key, reason, source
		FROM name_records
		WHERE record_type = ?
		ORDER BY id`, string(recordType))
	if err != nil {
		return nil, fmt.Errorf("query type: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) Count(ctx context.Context) (registry.Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_type, COUNT(*) FROM name_records GROUP BY record_type`)
	if err != nil {
		return registry.Stats{}, fmt.Errorf("count records: %w", err)
	}
	defer rows.Close()

	var stats registry.Stats
	for rows.Next() {
		var (
			t string
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return registry.Stats{}, fmt.Errorf("scan count: %w", err)
		}
		stats.Add(models.RecordType(t), n)
	}
	return stats, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]models.NameRecord, error) {
	defer rows.Close()

	var out []models.NameRecord
	for rows.Next() {
		var (
			rec    models.NameRecord
			t      string
			tokens string
		)
		if err := rows.Scan(&rec.ID, &t, &tokens, &rec.BucketKey, &rec.Reason, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Type = models.RecordType(t)
		if err := json.Unmarshal([]byte(tokens), &rec.Tokens); err != nil {
			return nil, fmt.Errorf("decode tokens of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
