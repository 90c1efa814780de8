package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/server/middleware"
	"github.com/kgraphrag/backend/pkg/logger"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// GetGroupsHandler lists every group that has graph data.
func GetGroupsHandler(c echo.Context) error {
	type groupsResponse struct {
		Message string   `json:"message,omitempty"`
		Groups  []string `json:"groups"`
		Count   int      `json:"count"`
	}

	app := c.(*middleware.AppContext).App

	ctx := c.Request().Context()
	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)

	groups, err := graphStorage.Groups(ctx)
	if err != nil {
		logger.Error("Failed to list groups", "err", err)
		return c.JSON(http.StatusInternalServerError, groupsResponse{
			Message: "Internal server error",
		})
	}

	if groups == nil {
		groups = []string{}
	}
	return c.JSON(http.StatusOK, groupsResponse{
		Groups: groups,
		Count:  len(groups),
	})
}
