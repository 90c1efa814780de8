// Package pgx implements graph storage on PostgreSQL with pgvector for
// vector similarity search.
package pgx

import (
	"context"
	"fmt"

	"github.com/kgraphrag/backend/pkg/ai"
	"github.com/kgraphrag/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// GraphDBStorage implements store.GraphStorage using PostgreSQL. The AI
// client is used to compute entity embeddings during RefreshEmbeddings.
type GraphDBStorage struct {
	conn     pgxIConn
	aiClient ai.GraphAIClient
}

// NewGraphDBStorageWithConnection creates a new GraphDBStorage using an
// existing database connection or pool.
func NewGraphDBStorageWithConnection(
	conn pgxIConn,
	aiClient ai.GraphAIClient,
) *GraphDBStorage {
	return &GraphDBStorage{
		conn:     conn,
		aiClient: aiClient,
	}
}

// Ping verifies database connectivity.
func (s *GraphDBStorage) Ping(ctx context.Context) error {
	var one int
	return s.conn.QueryRow(ctx, "SELECT 1").Scan(&one)
}

const embeddingDimensionQuery = `
SELECT atttypmod
FROM pg_attribute
WHERE attrelid = 'entities'::regclass AND attname = 'embedding'
`

// EmbeddingDimension returns the vector dimension of the entities
// embedding column. For pgvector columns the attribute typmod is the
// declared dimension; an untyped vector column reports a value below 1.
func (s *GraphDBStorage) EmbeddingDimension(ctx context.Context) (int, error) {
	var dim int
	if err := s.conn.QueryRow(ctx, embeddingDimensionQuery).Scan(&dim); err != nil {
		return 0, fmt.Errorf("%w: failed to read embedding dimension: %v", common.ErrStorage, err)
	}
	return dim, nil
}
