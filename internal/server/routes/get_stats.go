package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/server/middleware"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/logger"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// GetStatsHandler returns node and edge counts, broken down by type. With
// no group filter it covers the whole graph.
func GetStatsHandler(c echo.Context) error {
	type statsResponse struct {
		Message string             `json:"message,omitempty"`
		GroupID string             `json:"group_id,omitempty"`
		Stats   *common.GraphStats `json:"stats,omitempty"`
	}

	app := c.(*middleware.AppContext).App
	groupID := c.QueryParam("group_id")

	ctx := c.Request().Context()
	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)

	stats, err := graphStorage.Stats(ctx, groupID)
	if err != nil {
		logger.Error("Failed to load graph stats", "group", groupID, "err", err)
		return c.JSON(http.StatusInternalServerError, statsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, statsResponse{
		GroupID: groupID,
		Stats:   stats,
	})
}
