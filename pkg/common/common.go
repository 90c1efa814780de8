package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Document represents one uploaded file during a processing run. Documents
// are not persisted; only the graph data derived from them survives the run.
type Document struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	GroupID  string  `json:"group_id"`
	Text     string  `json:"text"`
	Chunks   []Chunk `json:"chunks"`
}

// Chunk is a bounded, overlapping segment of a document's text. Ordering is
// significant; consecutive chunks share a fixed number of characters so that
// extraction context is preserved across chunk boundaries.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Entity represents a node in the knowledge graph. Its identifier is derived
// from the group, normalized name, and type, so re-extracting the same
// real-world entity always resolves to the same node.
type Entity struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        EntityType `json:"type"`
	Description string     `json:"description"`
	GroupID     string     `json:"group_id"`
	Embedding   []float32  `json:"-"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Relationship represents a directed, labeled edge between two entities of
// the same group. Duplicate edges for the same ordered (source, target,
// label) triple are merged, not duplicated.
type Relationship struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	TargetID    string    `json:"target_id"`
	SourceName  string    `json:"source_name"`
	TargetName  string    `json:"target_name"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	GroupID     string    `json:"group_id"`
	Weight      float64   `json:"weight"`
	Mentions    int       `json:"mentions"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fact is a retrieval-time statement derived from an entity or relationship
// description. Facts are produced fresh on every search call and never
// persisted.
type Fact struct {
	Text      string    `json:"fact"`
	Source    string    `json:"source"`
	Score     float64   `json:"score"`
	Entities  []string  `json:"entities,omitempty"`
	UpdatedAt time.Time `json:"-"`
}

// Answer is the result of a grounded question against the graph.
type Answer struct {
	Question     string       `json:"question"`
	Answer       string       `json:"answer"`
	Sources      []FactSource `json:"sources"`
	EntitiesUsed []string     `json:"entities_used"`
	Confidence   float64      `json:"confidence"`
}

// FactSource is the attribution record carried from retrieval into an answer.
type FactSource struct {
	Fact   string  `json:"fact"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// GraphStats summarizes the graph content for one group, or for all groups
// when no group filter is applied.
type GraphStats struct {
	TotalNodes int64            `json:"total_nodes"`
	TotalEdges int64            `json:"total_edges"`
	NodeTypes  map[string]int64 `json:"node_types"`
	EdgeTypes  map[string]int64 `json:"edge_types"`
	Groups     []string         `json:"groups"`
}

// GraphNode is the visualization shape of an entity.
type GraphNode struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// GraphEdge is the visualization shape of a relationship.
type GraphEdge struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	Relationship string         `json:"relationship"`
	Properties   map[string]any `json:"properties"`
}

// GraphView bundles nodes and edges for visualization.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// NormalizeName produces the canonical form of an entity name used in merge
// keys: case-folded, trimmed, with internal whitespace collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// EntityID derives the stable identifier of an entity from its merge key.
// The same (group, normalized name, type) always maps to the same id, which
// keeps merges idempotent across uploads.
func EntityID(groupID, name string, typ EntityType) string {
	return deriveID("ent", groupID, NormalizeName(name), typ.String())
}

// RelationshipID derives the stable identifier of an edge from its merge key
// (group, source id, target id, label). Direction is part of the key.
func RelationshipID(groupID, sourceID, targetID, label string) string {
	return deriveID("rel", groupID, sourceID, targetID, strings.ToUpper(strings.TrimSpace(label)))
}

func deriveID(prefix string, parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return prefix + "_" + hex.EncodeToString(h[:])[:24]
}
