package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/server/middleware"
	"github.com/kgraphrag/backend/internal/storage"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/logger"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// DeleteGraphHandler removes all graph data of one group. The confirm flag
// is required; deletion is irreversible.
func DeleteGraphHandler(c echo.Context) error {
	type deleteBody struct {
		GroupID string `json:"group_id" validate:"required"`
		Confirm bool   `json:"confirm"`
	}

	type deleteResponse struct {
		Message      string `json:"message"`
		GroupID      string `json:"group_id,omitempty"`
		NodesDeleted int64  `json:"nodes_deleted"`
		EdgesDeleted int64  `json:"edges_deleted"`
	}

	data := new(deleteBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request body",
		})
	}

	if !data.Confirm {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: common.ErrConfirmRequired.Error(),
			GroupID: data.GroupID,
		})
	}

	app := c.(*middleware.AppContext).App

	ctx := c.Request().Context()
	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)

	nodes, edges, err := graphStorage.DeleteGroup(ctx, data.GroupID)
	if err != nil {
		logger.Error("Failed to delete group", "group", data.GroupID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteResponse{
			Message: "Internal server error",
		})
	}

	// archived uploads go with the graph, best effort
	if app.S3 != nil {
		if err := storage.DeleteGroupFiles(ctx, app.S3, data.GroupID); err != nil {
			logger.Warn("Failed to delete archived uploads", "group", data.GroupID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, deleteResponse{
		Message:      "Group deleted successfully",
		GroupID:      data.GroupID,
		NodesDeleted: nodes,
		EdgesDeleted: edges,
	})
}
