package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetRootHandler describes the service and its endpoints.
func GetRootHandler(c echo.Context) error {
	type rootResponse struct {
		Service   string            `json:"service"`
		Endpoints map[string]string `json:"endpoints"`
	}

	return c.JSON(http.StatusOK, rootResponse{
		Service: "knowledge graph service",
		Endpoints: map[string]string{
			"POST /api/graph/upload":   "ingest a document into a group's graph",
			"POST /api/graph/ask":      "answer a question from the graph",
			"POST /api/graph/search":   "retrieve relevant facts without synthesis",
			"GET /api/graph/stats":     "node and edge counts by type",
			"GET /api/graph/visualize": "bounded node/edge view for rendering",
			"GET /api/graph/groups":    "list groups with graph data",
			"GET /api/graph/health":    "service and database health",
			"DELETE /api/graph/delete": "delete a group's graph (confirm required)",
			"GET /api/graph/config":    "current configuration with secrets masked",
			"POST /api/graph/config":   "update runtime configuration",
		},
	})
}
