package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kgraphrag/backend/internal/util"
	"github.com/kgraphrag/backend/pkg/ai"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/logger"
	"github.com/kgraphrag/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// retryBackoffBase is the delay before the first retry of a provider or
// embedding call; it doubles on each further attempt.
const retryBackoffBase = 500 * time.Millisecond

// ProcessResult summarizes one document's trip through the pipeline.
type ProcessResult struct {
	EntitiesCreated      int
	EntitiesUpdated      int
	RelationshipsCreated int
	RelationshipsUpdated int
	ChunksProcessed      int
	ChunksFailed         int
}

// ProcessDocument runs the full pipeline for one document: chunk the text,
// extract candidates from every chunk concurrently, merge duplicates, and
// persist the result to graph storage.
//
// Chunks whose model output stays malformed after retries are skipped and
// counted in ChunksFailed; the rest of the document still lands. Provider
// and storage failures abort the document.
func (c *GraphClient) ProcessDocument(
	ctx context.Context,
	doc *common.Document,
	client ai.GraphAIClient,
	storage store.GraphStorage,
) (*ProcessResult, error) {
	chunks := c.ChunkText(doc.Text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyDocument, doc.Filename)
	}
	doc.Chunks = chunks

	responses := make([]*extractResponse, len(chunks))
	failed := 0
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelAiRequests)
	for i, chunk := range chunks {
		g.Go(func() error {
			res, err := util.RetryWithBackoff(gCtx, c.maxRetries, retryBackoffBase, func(rCtx context.Context) (*extractResponse, error) {
				return extractFromChunk(rCtx, chunk, doc.Filename, client)
			})
			if err != nil {
				if errors.Is(err, common.ErrMalformedOutput) {
					logger.Warn("skipping chunk with unusable model output",
						"document", doc.Filename, "chunk", chunk.Index, "err", err)
					mu.Lock()
					failed++
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("failed to extract entities and relationships from chunk %d: %w",
					chunk.Index, err)
			}
			responses[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// resolve candidates over all chunks at once so relationship endpoints
	// see entity types from every chunk, not just their own
	combined := &extractResponse{}
	for _, res := range responses {
		if res == nil {
			continue
		}
		combined.Entities = append(combined.Entities, res.Entities...)
		combined.Relationships = append(combined.Relationships, res.Relationships...)
	}
	entities, relations := candidatesFromResponse(doc.GroupID, combined)
	entities, relations = mergeEntitiesAndRelations(nil, entities, nil, relations)

	result := &ProcessResult{
		ChunksProcessed: len(chunks) - failed,
		ChunksFailed:    failed,
	}

	entCreated, entUpdated, err := storage.MergeEntities(ctx, entities)
	if err != nil {
		return nil, fmt.Errorf("failed to merge entities: %w", err)
	}
	relCreated, relUpdated, err := storage.MergeRelationships(ctx, relations)
	if err != nil {
		return nil, fmt.Errorf("failed to merge relationships: %w", err)
	}

	err = util.RetryErrWithBackoff(ctx, c.maxRetries, retryBackoffBase, func(rCtx context.Context) error {
		return storage.RefreshEmbeddings(rCtx, doc.GroupID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh embeddings: %w", err)
	}

	result.EntitiesCreated = entCreated
	result.EntitiesUpdated = entUpdated
	result.RelationshipsCreated = relCreated
	result.RelationshipsUpdated = relUpdated
	return result, nil
}
