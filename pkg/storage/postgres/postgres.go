// Package postgres provides a PostgreSQL storage.Store backed by a pgx
// connection pool. Requests and responses are kept as JSONB.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/storage"
)

// uniqueViolation is the SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

// New connects to the database and, when cfg.MigrateOnStart is set,
// applies pending migrations.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.applyDefaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}
	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}
	return s, nil
}

// Save inserts rec under the context tenant.
func (s *Store) Save(ctx context.Context, rec *storage.CompletionRecord) error {
	reqJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	respJSON, err := json.Marshal(rec.Response)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO completions (id, tenant_id, provider, model, request, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, storage.TenantFrom(ctx), rec.Provider, rec.Model, reqJSON, respJSON, rec.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting completion: %w", err)
	}
	debug.Log(debug.Storage, "completion saved", "id", rec.ID, "provider", rec.Provider)
	return nil
}

const selectColumns = `SELECT id, tenant_id, provider, model, request, response, created_at FROM completions`

// Get returns the record with id, scoped to the context tenant.
func (s *Store) Get(ctx context.Context, id string) (*storage.CompletionRecord, error) {
	query := selectColumns + " WHERE id = $1"
	args := []any{id}
	if tenant := storage.TenantFrom(ctx); tenant != "" {
		query += " AND tenant_id = $2"
		args = append(args, tenant)
	}

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying completion: %w", err)
	}
	return rec, nil
}

// List returns visible records newest first.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]*storage.CompletionRecord, error) {
	query := selectColumns + " WHERE true"
	var args []any
	if tenant := storage.TenantFrom(ctx); tenant != "" {
		args = append(args, tenant)
		query += fmt.Sprintf(" AND tenant_id = $%d", len(args))
	}
	if opts.Provider != "" {
		args = append(args, opts.Provider)
		query += fmt.Sprintf(" AND provider = $%d", len(args))
	}
	args = append(args, opts.EffectiveLimit())
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	out := make([]*storage.CompletionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a record, scoped to the context tenant.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := "DELETE FROM completions WHERE id = $1"
	args := []any{id}
	if tenant := storage.TenantFrom(ctx); tenant != "" {
		query += " AND tenant_id = $2"
		args = append(args, tenant)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (*storage.CompletionRecord, error) {
	var rec storage.CompletionRecord
	var reqJSON, respJSON []byte
	if err := row.Scan(&rec.ID, &rec.TenantID, &rec.Provider, &rec.Model, &reqJSON, &respJSON, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &rec.Request); err != nil {
		return nil, fmt.Errorf("unmarshaling request: %w", err)
	}
	if err := json.Unmarshal(respJSON, &rec.Response); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return &rec, nil
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
