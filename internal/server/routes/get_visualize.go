package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/server/middleware"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/logger"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// GetVisualizationHandler returns a bounded node/edge view of one group's
// graph for rendering.
func GetVisualizationHandler(c echo.Context) error {
	type visualizeParams struct {
		GroupID string `query:"group_id"`
		Limit   int    `query:"limit" validate:"omitempty,min=1,max=500"`
	}

	type visualizeResponse struct {
		Message string            `json:"message,omitempty"`
		GroupID string            `json:"group_id,omitempty"`
		Graph   *common.GraphView `json:"graph,omitempty"`
	}

	params := new(visualizeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, visualizeResponse{
			Message: "Invalid request params",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, visualizeResponse{
			Message: "limit must be between 1 and 500",
		})
	}

	app := c.(*middleware.AppContext).App
	groupID := params.GroupID
	if groupID == "" {
		groupID = app.Settings.DefaultGroupID
	}
	limit := params.Limit
	if limit == 0 {
		limit = 100
	}

	ctx := c.Request().Context()
	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)

	view, err := graphStorage.Visualize(ctx, groupID, limit)
	if err != nil {
		logger.Error("Failed to build graph view", "group", groupID, "err", err)
		return c.JSON(http.StatusInternalServerError, visualizeResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, visualizeResponse{
		GroupID: groupID,
		Graph:   view,
	})
}
