// Package postgres inserts intake records into a PostgreSQL table through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goliatone/go-intake/pkg/submission"
)

// DefaultTable matches the hosted backend table name.
const DefaultTable = "indemnity"

// Execer is the subset of *pgxpool.Pool the store needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store implements submission.RecordStore.
type Store struct {
	db     Execer
	table  string
	insert string
}

var _ submission.RecordStore = (*Store)(nil)

// New builds a store writing to table (DefaultTable when empty).
func New(db Execer, table string) (*Store, error) {
	if db == nil {
		return nil, errors.New("postgres: connection is required")
	}
	table = strings.TrimSpace(table)
	if table == "" {
		table = DefaultTable
	}
	return &Store{db: db, table: table, insert: insertStatement(table)}, nil
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// Insert writes one row. Exactly one affected row is expected.
func (s *Store) Insert(ctx context.Context, record submission.Record) error {
	tag, err := s.db.Exec(ctx, s.insert, record.Values()...)
	if err != nil {
		return fmt.Errorf("postgres: insert into %s: %w", s.table, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("postgres: insert into %s: %d rows affected", s.table, tag.RowsAffected())
	}
	return nil
}

// EnsureSchema creates the table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createStatement(s.table)); err != nil {
		return fmt.Errorf("postgres: ensure schema %s: %w", s.table, err)
	}
	return nil
}

func insertStatement(table string) string {
	columns := submission.ColumnNames()
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(quoted, ", "),
		strings.Join(params, ", "),
	)
}

func createStatement(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	language TEXT NOT NULL,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL,
	nationality TEXT NOT NULL,
	birthday DATE NOT NULL,
	id_number TEXT NOT NULL,
	insurance TEXT NOT NULL,
	has_children BOOLEAN NOT NULL,
	children_names TEXT,
	terms_accepted BOOLEAN NOT NULL,
	signature TEXT NOT NULL
)`, pgx.Identifier{table}.Sanitize())
}
