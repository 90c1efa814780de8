// Package store defines the persistence boundary of the knowledge graph.
package store

import (
	"context"

	"github.com/kgraphrag/backend/pkg/common"
)

// ScoredEntity is an entity with its similarity score from a search.
type ScoredEntity struct {
	common.Entity
	Score float64
}

// ScoredRelationship is a relationship with its similarity score from a
// search. The score is derived from the edge's endpoint entities.
type ScoredRelationship struct {
	common.Relationship
	Score float64
}

// GraphStorage is the persistence interface for graph content. The merge
// operations are idempotent: re-submitting the same candidates updates the
// stored rows instead of duplicating them.
type GraphStorage interface {
	// MergeEntities upserts entity candidates keyed by their merge
	// identity. Candidates are committed independently, so one failing
	// candidate does not roll back the others.
	MergeEntities(ctx context.Context, entities []common.Entity) (created, updated int, err error)

	// MergeRelationships upserts relationship candidates. Endpoint
	// entities must already exist.
	MergeRelationships(ctx context.Context, relationships []common.Relationship) (created, updated int, err error)

	// RefreshEmbeddings computes embeddings for all entities of the group
	// whose stored vector is missing or stale.
	RefreshEmbeddings(ctx context.Context, groupID string) error

	// SearchEntities returns the entities of the group most similar to
	// the query embedding, best first.
	SearchEntities(ctx context.Context, groupID string, embedding []float32, limit int) ([]ScoredEntity, error)

	// SearchRelationships returns the relationships of the group whose
	// endpoints are most similar to the query embedding, best first.
	SearchRelationships(ctx context.Context, groupID string, embedding []float32, limit int) ([]ScoredRelationship, error)

	// Stats summarizes the graph. An empty groupID covers all groups.
	Stats(ctx context.Context, groupID string) (*common.GraphStats, error)

	// Visualize returns up to limit nodes of the group and the edges
	// among them.
	Visualize(ctx context.Context, groupID string, limit int) (*common.GraphView, error)

	// Groups lists all group identifiers present in the graph.
	Groups(ctx context.Context) ([]string, error)

	// DeleteGroup removes all graph content of the group and reports how
	// many nodes and edges were removed.
	DeleteGroup(ctx context.Context, groupID string) (nodes, edges int64, err error)

	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error
}
