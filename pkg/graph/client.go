// Package graph builds knowledge graph content from documents: chunking,
// model-driven extraction, and deduplicating merges.
package graph

import "fmt"

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultParallelism  = 4
	defaultMaxRetries   = 3
)

// GraphClient drives the document processing pipeline. It owns the chunking
// parameters and the concurrency and retry limits for extraction requests.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	chunkSize          int
	chunkOverlap       int
	parallelAiRequests int
	maxRetries         int
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// ChunkSize and ChunkOverlap are measured in runes. ParallelAiRequests
// controls how many extraction requests run concurrently per document.
type NewGraphClientParams struct {
	ChunkSize          int
	ChunkOverlap       int
	ParallelAiRequests int
	MaxRetries         int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters. Zero values fall back to defaults; an overlap
// equal to or larger than the chunk size is rejected since chunking could
// never advance.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		ChunkSize:          1000,
//		ChunkOverlap:       200,
//		ParallelAiRequests: 4,
//	})
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	if params.ChunkSize <= 0 {
		params.ChunkSize = defaultChunkSize
	}
	if params.ChunkOverlap <= 0 {
		params.ChunkOverlap = defaultChunkOverlap
	}
	if params.ParallelAiRequests <= 0 {
		params.ParallelAiRequests = defaultParallelism
	}
	if params.MaxRetries <= 0 {
		params.MaxRetries = defaultMaxRetries
	}

	if params.ChunkOverlap >= params.ChunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)",
			params.ChunkOverlap, params.ChunkSize)
	}

	return &GraphClient{
		chunkSize:          params.ChunkSize,
		chunkOverlap:       params.ChunkOverlap,
		parallelAiRequests: params.ParallelAiRequests,
		maxRetries:         params.MaxRetries,
	}, nil
}
