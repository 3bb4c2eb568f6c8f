// Package postgres stores the registry in Postgres. Lookups go through
// database/sql with lib/pq; refreshes use a pgx pool so the whole list can be
// streamed in with COPY.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"namescreen/internal/registry"
	"namescreen/internal/screening/models"
)

//go:embed schema.sql
var Schema string

var columns = []string{"id", "record_type", "tokens", "bucket_key", "reason", "source"}

type Store struct {
	db   *sql.DB
	pool *pgxpool.Pool
}

func New(db *sql.DB, pool *pgxpool.Pool) *Store {
	return &Store{db: db, pool: pool}
}

// Open connects both clients to dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres registry: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres registry: %w", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return New(db, pool), nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return s.db.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply registry schema: %w", err)
	}
	return nil
}

// Replace loads records into a temporary table with COPY, then truncates and
// refills name_records inside the same transaction. Readers block on the
// truncate lock and then see the complete new list.
func (s *Store) Replace(ctx context.Context, records []models.NameRecord) error {
	if err := registry.ValidateSnapshot(records); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin registry refresh: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE name_records_load (LIKE name_records INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("create load table: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{rec.ID, string(rec.Type), rec.Tokens, rec.BucketKey, rec.Reason, rec.Source}
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"name_records_load"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy records: %w", err)
	}
	if int(copied) != len(records) {
		return fmt.Errorf("copied %d of %d records", copied, len(records))
	}

	if _, err := tx.Exec(ctx, `TRUNCATE name_records`); err != nil {
		return fmt.Errorf("truncate registry: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO name_records SELECT * FROM name_records_load`); err != nil {
		return fmt.Errorf("swap in records: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registry refresh: %w", err)
	}
	return nil
}

func (s *Store) QueryByBucket(ctx context.Context, bucketKey string, recordType models.RecordType) ([]models.NameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, tokens, bucket_key, reason, source
		FROM name_records
		WHERE bucket_key = $1 AND record_type = $2
		ORDER BY id`, bucketKey, string(recordType))
	if err != nil {
		return nil, fmt.Errorf("query bucket: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) QueryByType(ctx context.Context, recordType models.RecordType) ([]models.NameRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_type, tokens, bucket_key, reason, source
		FROM name_records
		WHERE record_type = $1
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
			rec models.NameRecord
			t   string
		)
		if err := rows.Scan(&rec.ID, &t, pq.Array(&rec.Tokens), &rec.BucketKey, &rec.Reason, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Type = models.RecordType(t)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
