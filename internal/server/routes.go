package server

import (
	"github.com/kgraphrag/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Service info and liveness routes
	e.GET("/", routes.GetRootHandler)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(200, "pong")
	})

	graphRoutes := e.Group("/api/graph")

	// Ingestion routes
	graphRoutes.POST("/upload", routes.UploadDocumentHandler)

	// Query routes
	graphRoutes.POST("/ask", routes.AskHandler)
	graphRoutes.POST("/search", routes.SearchHandler)

	// Inspection routes
	graphRoutes.GET("/stats", routes.GetStatsHandler)
	graphRoutes.GET("/visualize", routes.GetVisualizationHandler)
	graphRoutes.GET("/groups", routes.GetGroupsHandler)
	graphRoutes.GET("/health", routes.GetHealthHandler)

	// Maintenance routes
	graphRoutes.DELETE("/delete", routes.DeleteGraphHandler)
	graphRoutes.GET("/config", routes.GetConfigHandler)
	graphRoutes.POST("/config", routes.UpdateConfigHandler)
}
