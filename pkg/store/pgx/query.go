package pgx

import (
	"context"
	"fmt"

	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/store"

	"github.com/pgvector/pgvector-go"
)

const searchEntitiesQuery = `
SELECT id, name, type, description, updated_at, 1 - (embedding <=> $2) AS score
FROM entities
WHERE group_id = $1 AND embedding IS NOT NULL
ORDER BY embedding <=> $2
LIMIT $3
`

// SearchEntities returns the entities of the group closest to the query
// embedding by cosine similarity, best first. Entities whose embedding has
// not been computed yet are excluded.
func (s *GraphDBStorage) SearchEntities(
	ctx context.Context,
	groupID string,
	embedding []float32,
	limit int,
) ([]store.ScoredEntity, error) {
	rows, err := s.conn.Query(ctx, searchEntitiesQuery,
		groupID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search entities: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]store.ScoredEntity, 0, limit)
	for rows.Next() {
		var (
			e   store.ScoredEntity
			typ string
		)
		if err := rows.Scan(&e.ID, &e.Name, &typ, &e.Description, &e.UpdatedAt, &e.Score); err != nil {
			return nil, fmt.Errorf("%w: scan entity: %v", common.ErrStorage, err)
		}
		e.Type = common.ParseEntityType(typ)
		e.GroupID = groupID
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entities: %v", common.ErrStorage, err)
	}
	return out, nil
}

const searchRelationshipsQuery = `
SELECT r.id, r.source_id, r.target_id, r.source_name, r.target_name,
       r.label, r.description, r.weight, r.mentions, r.updated_at,
       GREATEST(1 - (se.embedding <=> $2), 1 - (te.embedding <=> $2)) AS score
FROM relationships r
JOIN entities se ON se.id = r.source_id
JOIN entities te ON te.id = r.target_id
WHERE r.group_id = $1 AND se.embedding IS NOT NULL AND te.embedding IS NOT NULL
ORDER BY score DESC
LIMIT $3
`

// SearchRelationships returns the relationships of the group whose closest
// endpoint is most similar to the query embedding, best first.
func (s *GraphDBStorage) SearchRelationships(
	ctx context.Context,
	groupID string,
	embedding []float32,
	limit int,
) ([]store.ScoredRelationship, error) {
	rows, err := s.conn.Query(ctx, searchRelationshipsQuery,
		groupID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search relationships: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]store.ScoredRelationship, 0, limit)
	for rows.Next() {
		var r store.ScoredRelationship
		if err := rows.Scan(
			&r.ID, &r.SourceID, &r.TargetID, &r.SourceName, &r.TargetName,
			&r.Label, &r.Description, &r.Weight, &r.Mentions, &r.UpdatedAt, &r.Score,
		); err != nil {
			return nil, fmt.Errorf("%w: scan relationship: %v", common.ErrStorage, err)
		}
		r.GroupID = groupID
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate relationships: %v", common.ErrStorage, err)
	}
	return out, nil
}
