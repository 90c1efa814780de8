// Package query implements retrieval over the knowledge graph: similarity
// search with lexical boosting, and grounded answer synthesis.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kgraphrag/backend/pkg/ai"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/store"
)

const (
	// DefaultTopK is the fact count used when a request leaves top_k unset.
	// Callers resolve the default before calling Search; an explicit zero
	// is an input error.
	DefaultTopK = 10
	// MaxTopK bounds how many facts one search may return.
	MaxTopK = 50

	wholeNameBoost    = 0.25
	tokenOverlapBoost = 0.15
)

// QueryClient answers retrieval requests against one storage backend.
type QueryClient struct {
	aiClient ai.GraphAIClient
	storage  store.GraphStorage
}

// NewQueryClient creates a QueryClient bound to the given AI client and
// graph storage.
func NewQueryClient(aiClient ai.GraphAIClient, storage store.GraphStorage) *QueryClient {
	return &QueryClient{
		aiClient: aiClient,
		storage:  storage,
	}
}

// Search retrieves the topK facts of the group most relevant to the query.
// Relevance combines embedding similarity with a lexical boost for entity
// names that literally appear in the query text. A group with no content
// yields an empty result, not an error.
func (q *QueryClient) Search(ctx context.Context, groupID, query string, topK int) ([]common.Fact, error) {
	if topK < 1 || topK > MaxTopK {
		return nil, fmt.Errorf("%w: got %d", common.ErrInvalidTopK, topK)
	}

	embedding, err := q.aiClient.GenerateEmbedding(ctx, []byte(query))
	if err != nil {
		return nil, err
	}

	// fetch a wider pool than requested so the lexical boost can promote
	// facts past the similarity cutoff
	pool := topK * 2

	entities, err := q.storage.SearchEntities(ctx, groupID, embedding, pool)
	if err != nil {
		return nil, err
	}
	relationships, err := q.storage.SearchRelationships(ctx, groupID, embedding, pool)
	if err != nil {
		return nil, err
	}

	facts := make([]common.Fact, 0, len(entities)+len(relationships))
	for _, e := range entities {
		facts = append(facts, entityFact(e))
	}
	for _, r := range relationships {
		facts = append(facts, relationshipFact(r))
	}

	queryNorm := common.NormalizeName(query)
	for i := range facts {
		facts[i].Score = clampScore(facts[i].Score + lexicalBoost(queryNorm, facts[i].Entities))
	}

	sort.SliceStable(facts, func(i, j int) bool {
		if facts[i].Score != facts[j].Score {
			return facts[i].Score > facts[j].Score
		}
		return facts[i].UpdatedAt.After(facts[j].UpdatedAt)
	})

	if len(facts) > topK {
		facts = facts[:topK]
	}
	return facts, nil
}

func entityFact(e store.ScoredEntity) common.Fact {
	text := e.Description
	if text == "" {
		text = e.Name
	}
	return common.Fact{
		Text:      text,
		Source:    fmt.Sprintf("%s (%s)", e.Name, e.Type.String()),
		Score:     e.Score,
		Entities:  []string{e.Name},
		UpdatedAt: e.UpdatedAt,
	}
}

func relationshipFact(r store.ScoredRelationship) common.Fact {
	text := r.Description
	if text == "" {
		text = fmt.Sprintf("%s %s %s", r.SourceName, r.Label, r.TargetName)
	}
	return common.Fact{
		Text:      text,
		Source:    fmt.Sprintf("%s -[%s]-> %s", r.SourceName, r.Label, r.TargetName),
		Score:     r.Score,
		Entities:  []string{r.SourceName, r.TargetName},
		UpdatedAt: r.UpdatedAt,
	}
}

// lexicalBoost rewards facts whose entities literally show up in the
// query: a whole-name match earns the full boost, partial token overlap a
// proportional smaller one. The best entity wins.
func lexicalBoost(queryNorm string, entityNames []string) float64 {
	if queryNorm == "" {
		return 0
	}
	queryTokens := strings.Fields(queryNorm)

	best := 0.0
	for _, name := range entityNames {
		norm := common.NormalizeName(name)
		if norm == "" {
			continue
		}

		if containsWholeName(queryNorm, norm) {
			if wholeNameBoost > best {
				best = wholeNameBoost
			}
			continue
		}

		tokens := strings.Fields(norm)
		matched := 0
		for _, tok := range tokens {
			for _, qt := range queryTokens {
				if tok == qt {
					matched++
					break
				}
			}
		}
		if matched > 0 {
			boost := float64(matched) / float64(len(tokens)) * tokenOverlapBoost
			if boost > best {
				best = boost
			}
		}
	}
	return best
}

// containsWholeName checks for the name as a whole word sequence, so
// "acme" does not match inside "acmeta".
func containsWholeName(queryNorm, name string) bool {
	idx := 0
	for {
		i := strings.Index(queryNorm[idx:], name)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(name)
		beforeOK := start == 0 || queryNorm[start-1] == ' '
		afterOK := end == len(queryNorm) || queryNorm[end] == ' '
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(queryNorm) {
			return false
		}
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
