package routes

import "github.com/kgraphrag/backend/pkg/query"

// resolveTopK maps an absent top_k to the default while passing explicit
// values through untouched, so an explicit out-of-range value (including
// zero) is still rejected downstream.
func resolveTopK(topK *int) int {
	if topK == nil {
		return query.DefaultTopK
	}
	return *topK
}
