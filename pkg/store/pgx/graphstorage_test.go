package pgx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kgraphrag/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	value int
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("unexpected scan target count")
	}
	p, ok := dest[0].(*int)
	if !ok {
		return errors.New("unexpected scan target type")
	}
	*p = r.value
	return nil
}

type fakeConn struct {
	row     fakeRow
	lastSQL string
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgxv5.Rows, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgxv5.Row {
	c.lastSQL = sql
	return c.row
}

func (c *fakeConn) Begin(ctx context.Context) (pgxv5.Tx, error) {
	return nil, errors.New("not implemented")
}

func TestEmbeddingDimension(t *testing.T) {
	conn := &fakeConn{row: fakeRow{value: 1536}}
	s := NewGraphDBStorageWithConnection(conn, nil)

	dim, err := s.EmbeddingDimension(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if dim != 1536 {
		t.Fatalf("expected 1536, got %d", dim)
	}
	if !strings.Contains(conn.lastSQL, "pg_attribute") {
		t.Fatalf("expected catalog query, got %q", conn.lastSQL)
	}
}

func TestEmbeddingDimension_QueryFailure(t *testing.T) {
	conn := &fakeConn{row: fakeRow{err: errors.New("connection reset")}}
	s := NewGraphDBStorageWithConnection(conn, nil)

	_, err := s.EmbeddingDimension(context.Background())
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	conn := &fakeConn{row: fakeRow{value: 1}}
	s := NewGraphDBStorageWithConnection(conn, nil)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	conn.row = fakeRow{err: errors.New("down")}
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error when the database is unreachable")
	}
}
