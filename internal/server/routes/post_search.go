package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/server/middleware"
	"github.com/kgraphrag/backend/pkg/common"
	"github.com/kgraphrag/backend/pkg/logger"
	"github.com/kgraphrag/backend/pkg/query"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// SearchHandler retrieves the facts most relevant to a query without
// synthesizing an answer.
func SearchHandler(c echo.Context) error {
	type searchBody struct {
		Query   string `json:"query" validate:"required"`
		GroupID string `json:"group_id"`
		TopK    *int   `json:"top_k"`
	}

	type searchResponse struct {
		Message string        `json:"message,omitempty"`
		Query   string        `json:"query,omitempty"`
		GroupID string        `json:"group_id,omitempty"`
		Facts   []common.Fact `json:"facts"`
		Count   int           `json:"count"`
	}

	data := new(searchBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, searchResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	groupID := data.GroupID
	if groupID == "" {
		groupID = app.Settings.DefaultGroupID
	}

	ctx := c.Request().Context()
	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)
	queryClient := query.NewQueryClient(app.AiClient, graphStorage)

	facts, err := queryClient.Search(ctx, groupID, data.Query, resolveTopK(data.TopK))
	if err != nil {
		if errors.Is(err, common.ErrInvalidTopK) {
			return c.JSON(http.StatusBadRequest, searchResponse{
				Message: err.Error(),
			})
		}
		logger.Error("Failed to search graph", "group", groupID, "err", err)
		return c.JSON(http.StatusInternalServerError, searchResponse{
			Message: "Failed to search graph",
		})
	}

	if facts == nil {
		facts = []common.Fact{}
	}
	return c.JSON(http.StatusOK, searchResponse{
		Query:   data.Query,
		GroupID: groupID,
		Facts:   facts,
		Count:   len(facts),
	})
}
