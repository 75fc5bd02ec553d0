package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/goliatone/go-intake/pkg/submission"
)

type stubExecer struct {
	sql  []string
	args [][]any
	tag  pgconn.CommandTag
	err  error
}

func (s *stubExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.sql = append(s.sql, sql)
	s.args = append(s.args, args)
	return s.tag, s.err
}

func TestInsertStatementAndArgs(t *testing.T) {
	db := &stubExecer{tag: pgconn.NewCommandTag("INSERT 0 1")}
	store, err := New(db, "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	record := submission.Record{
		"language": "en", "full_name": "Jane Doe", "email": "jane@x.com",
		"nationality": "Kenya", "birthday": "1990-01-01", "id_number": "123",
		"insurance": "Acme", "has_children": false, "children_names": nil,
		"terms_accepted": true, "signature": "https://cdn/x.png",
	}
	if err := store.Insert(context.Background(), record); err != nil {
		t.Fatalf("insert: %v", err)
	}

	wantSQL := `INSERT INTO "indemnity" ("language", "full_name", "email", "nationality", "birthday", "id_number", "insurance", "has_children", "children_names", "terms_accepted", "signature") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if db.sql[0] != wantSQL {
		t.Fatalf("sql mismatch:\nwant %s\ngot  %s", wantSQL, db.sql[0])
	}
	wantArgs := []any{"en", "Jane Doe", "jane@x.com", "Kenya", "1990-01-01", "123", "Acme", false, nil, true, "https://cdn/x.png"}
	if diff := cmp.Diff(wantArgs, db.args[0]); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertErrors(t *testing.T) {
	boom := errors.New("connection reset")
	store, _ := New(&stubExecer{err: boom}, "intake")
	if err := store.Insert(context.Background(), submission.Record{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}

	store, _ = New(&stubExecer{tag: pgconn.NewCommandTag("INSERT 0 0")}, "intake")
	if err := store.Insert(context.Background(), submission.Record{}); err == nil {
		t.Fatalf("expected error for zero affected rows")
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &stubExecer{}
	store, _ := New(db, "intake_records")
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if !strings.HasPrefix(db.sql[0], `CREATE TABLE IF NOT EXISTS "intake_records"`) {
		t.Fatalf("unexpected ddl: %s", db.sql[0])
	}
}

func TestNewRequiresConnection(t *testing.T) {
	if _, err := New(nil, ""); err == nil {
		t.Fatalf("expected error")
	}
}
