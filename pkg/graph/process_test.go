package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/kgraphrag/backend/pkg/ai"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/store"
)

// fakeAIClient serves canned extraction output. Chunks whose text contains
// a poison marker fail with malformed output on every attempt.
type fakeAIClient struct {
	mu       sync.Mutex
	requests int
}

func (f *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "ok", nil
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()

	if strings.Contains(prompt, "POISON") {
		return fmt.Errorf("%w: gibberish", common.ErrMalformedOutput)
	}

	res := extractResponse{
		Entities: []extractEntity{
			{Name: "ACME CORP", Type: "ORGANIZATION", Description: "A company."},
			{Name: "JANE DOE", Type: "PERSON", Description: "Works at Acme."},
		},
		Relationships: []extractRelationship{
			{SourceEntity: "JANE DOE", TargetEntity: "ACME CORP", Label: "WORKS_AT", Strength: 0.8},
		},
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return make([]float32, 4), nil
}

func (f *fakeAIClient) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range out {
		out[i] = make([]float32, 4)
	}
	return out, nil
}

// fakeStorage records merged candidates in memory.
type fakeStorage struct {
	entities      map[string]common.Entity
	relationships map[string]common.Relationship
	refreshed     []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		entities:      map[string]common.Entity{},
		relationships: map[string]common.Relationship{},
	}
}

func (f *fakeStorage) MergeEntities(ctx context.Context, entities []common.Entity) (int, int, error) {
	created, updated := 0, 0
	for _, e := range entities {
		if _, ok := f.entities[e.ID]; ok {
			updated++
		} else {
			created++
		}
		f.entities[e.ID] = e
	}
	return created, updated, nil
}

func (f *fakeStorage) MergeRelationships(ctx context.Context, relationships []common.Relationship) (int, int, error) {
	created, updated := 0, 0
	for _, r := range relationships {
		if _, ok := f.relationships[r.ID]; ok {
			updated++
		} else {
			created++
		}
		f.relationships[r.ID] = r
	}
	return created, updated, nil
}

func (f *fakeStorage) RefreshEmbeddings(ctx context.Context, groupID string) error {
	f.refreshed = append(f.refreshed, groupID)
	return nil
}

func (f *fakeStorage) SearchEntities(ctx context.Context, groupID string, embedding []float32, limit int) ([]store.ScoredEntity, error) {
	return nil, nil
}

func (f *fakeStorage) SearchRelationships(ctx context.Context, groupID string, embedding []float32, limit int) ([]store.ScoredRelationship, error) {
	return nil, nil
}

func (f *fakeStorage) Stats(ctx context.Context, groupID string) (*common.GraphStats, error) {
	return &common.GraphStats{}, nil
}

func (f *fakeStorage) Visualize(ctx context.Context, groupID string, limit int) (*common.GraphView, error) {
	return &common.GraphView{}, nil
}

func (f *fakeStorage) Groups(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeStorage) DeleteGroup(ctx context.Context, groupID string) (int64, int64, error) {
	return 0, 0, nil
}

func (f *fakeStorage) Ping(ctx context.Context) error { return nil }

func TestProcessDocument(t *testing.T) {
	c := newTestClient(t, 1000, 200)
	client := &fakeAIClient{}
	storage := newFakeStorage()

	doc := &common.Document{
		ID:       "doc_1",
		Filename: "report.txt",
		GroupID:  "g1",
		Text:     strings.Repeat("Jane Doe works at Acme Corp. ", 100),
	}

	result, err := c.ProcessDocument(context.Background(), doc, client, storage)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}

	if len(doc.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(doc.Chunks))
	}
	if result.ChunksProcessed != len(doc.Chunks) {
		t.Fatalf("chunks processed = %d, want %d", result.ChunksProcessed, len(doc.Chunks))
	}
	if result.ChunksFailed != 0 {
		t.Fatalf("chunks failed = %d, want 0", result.ChunksFailed)
	}

	// every chunk yields the same two entities, merged into two rows
	if result.EntitiesCreated != 2 {
		t.Fatalf("entities created = %d, want 2", result.EntitiesCreated)
	}
	if result.RelationshipsCreated != 1 {
		t.Fatalf("relationships created = %d, want 1", result.RelationshipsCreated)
	}
	if len(storage.refreshed) != 1 || storage.refreshed[0] != "g1" {
		t.Fatalf("expected one embedding refresh for g1, got %v", storage.refreshed)
	}
}

func TestProcessDocument_RecoversMalformedChunks(t *testing.T) {
	c := newTestClient(t, 100, 20)
	client := &fakeAIClient{}
	storage := newFakeStorage()

	// second window of the text carries the poison marker
	text := strings.Repeat("a", 90) + " POISON POISON POISON " + strings.Repeat("b", 90)
	doc := &common.Document{
		ID:       "doc_2",
		Filename: "poison.txt",
		GroupID:  "g1",
		Text:     text,
	}

	result, err := c.ProcessDocument(context.Background(), doc, client, storage)
	if err != nil {
		t.Fatalf("ProcessDocument() error = %v", err)
	}
	if result.ChunksFailed == 0 {
		t.Fatal("expected at least one failed chunk")
	}
	if result.ChunksProcessed+result.ChunksFailed != len(doc.Chunks) {
		t.Fatalf("processed (%d) + failed (%d) != total chunks (%d)",
			result.ChunksProcessed, result.ChunksFailed, len(doc.Chunks))
	}
	// surviving chunks still land in storage
	if len(storage.entities) == 0 {
		t.Fatal("expected entities from surviving chunks")
	}
}

func TestProcessDocument_EmptyText(t *testing.T) {
	c := newTestClient(t, 1000, 200)
	doc := &common.Document{ID: "doc_3", Filename: "empty.txt", GroupID: "g1"}

	if _, err := c.ProcessDocument(context.Background(), doc, &fakeAIClient{}, newFakeStorage()); err == nil {
		t.Fatal("expected an error for a document without text")
	}
}
