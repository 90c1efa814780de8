package pgx

import (
	"context"
	"fmt"

	"github.com/kgraphrag/backend/pkg/common"

	"github.com/pgvector/pgvector-go"
)

const mergeEntityQuery = `
INSERT INTO entities (id, group_id, name, normalized_name, type, description, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (group_id, normalized_name, type) DO UPDATE SET
	description = CASE
		WHEN entities.description = '' THEN EXCLUDED.description
		WHEN EXCLUDED.description = '' THEN entities.description
		WHEN position(EXCLUDED.description IN entities.description) > 0 THEN entities.description
		WHEN position(entities.description IN EXCLUDED.description) > 0 THEN EXCLUDED.description
		ELSE entities.description || E'\n' || EXCLUDED.description
	END,
	embedding = NULL,
	updated_at = now()
RETURNING (xmax = 0) AS inserted
`

// MergeEntities upserts entity candidates one by one. Each candidate
// commits independently so a failure partway leaves earlier candidates in
// place; re-running the merge is safe because the operation is idempotent.
// Updated rows get their embedding cleared so RefreshEmbeddings picks
// them up.
func (s *GraphDBStorage) MergeEntities(
	ctx context.Context,
	entities []common.Entity,
) (created, updated int, err error) {
	for _, e := range entities {
		var inserted bool
		err := s.conn.QueryRow(ctx, mergeEntityQuery,
			e.ID,
			e.GroupID,
			e.Name,
			common.NormalizeName(e.Name),
			e.Type.String(),
			e.Description,
		).Scan(&inserted)
		if err != nil {
			return created, updated, fmt.Errorf("%w: merge entity %s: %v", common.ErrStorage, e.ID, err)
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

const mergeRelationshipQuery = `
INSERT INTO relationships (id, group_id, source_id, target_id, source_name, target_name, label, description, weight, mentions, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (group_id, source_id, target_id, label) DO UPDATE SET
	description = CASE
		WHEN relationships.description = '' THEN EXCLUDED.description
		WHEN EXCLUDED.description = '' THEN relationships.description
		WHEN position(EXCLUDED.description IN relationships.description) > 0 THEN relationships.description
		WHEN position(relationships.description IN EXCLUDED.description) > 0 THEN EXCLUDED.description
		ELSE relationships.description || E'\n' || EXCLUDED.description
	END,
	weight = (relationships.weight + EXCLUDED.weight) / 2,
	mentions = relationships.mentions + EXCLUDED.mentions,
	updated_at = now()
RETURNING (xmax = 0) AS inserted
`

// MergeRelationships upserts relationship candidates. Duplicate edges for
// the same ordered (source, target, label) triple merge into one row with
// an averaged weight and summed mention count.
func (s *GraphDBStorage) MergeRelationships(
	ctx context.Context,
	relationships []common.Relationship,
) (created, updated int, err error) {
	for _, r := range relationships {
		var inserted bool
		err := s.conn.QueryRow(ctx, mergeRelationshipQuery,
			r.ID,
			r.GroupID,
			r.SourceID,
			r.TargetID,
			r.SourceName,
			r.TargetName,
			r.Label,
			r.Description,
			r.Weight,
			r.Mentions,
		).Scan(&inserted)
		if err != nil {
			return created, updated, fmt.Errorf("%w: merge relationship %s: %v", common.ErrStorage, r.ID, err)
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

const embeddingBatchSize = 64

// RefreshEmbeddings computes embeddings for all entities of the group
// whose vector is missing. The embedded text combines name, type, and
// description so that both lexical and semantic lookups hit.
func (s *GraphDBStorage) RefreshEmbeddings(ctx context.Context, groupID string) error {
	rows, err := s.conn.Query(ctx,
		`SELECT id, name, type, description FROM entities
		 WHERE group_id = $1 AND embedding IS NULL`,
		groupID,
	)
	if err != nil {
		return fmt.Errorf("%w: load stale entities: %v", common.ErrStorage, err)
	}

	type pending struct {
		id   string
		text string
	}
	var work []pending
	for rows.Next() {
		var id, name, typ, description string
		if err := rows.Scan(&id, &name, &typ, &description); err != nil {
			rows.Close()
			return fmt.Errorf("%w: scan stale entity: %v", common.ErrStorage, err)
		}
		work = append(work, pending{
			id:   id,
			text: fmt.Sprintf("%s (%s): %s", name, typ, description),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate stale entities: %v", common.ErrStorage, err)
	}
	if len(work) == 0 {
		return nil
	}

	for start := 0; start < len(work); start += embeddingBatchSize {
		end := min(start+embeddingBatchSize, len(work))
		batch := work[start:end]

		inputs := make([][]byte, len(batch))
		for i, p := range batch {
			inputs[i] = []byte(p.text)
		}
		vectors, err := s.aiClient.GenerateEmbeddings(ctx, inputs)
		if err != nil {
			return err
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: embedding batch size mismatch: got %d want %d",
				common.ErrStorage, len(vectors), len(batch))
		}

		for i, p := range batch {
			_, err := s.conn.Exec(ctx,
				`UPDATE entities SET embedding = $2 WHERE id = $1`,
				p.id, pgvector.NewVector(vectors[i]),
			)
			if err != nil {
				return fmt.Errorf("%w: store embedding for %s: %v", common.ErrStorage, p.id, err)
			}
		}
	}
	return nil
}
