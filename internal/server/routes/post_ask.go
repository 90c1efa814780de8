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

// AskHandler answers a natural-language question from the knowledge graph
// of one group.
func AskHandler(c echo.Context) error {
	type askBody struct {
		Question string `json:"question" validate:"required"`
		GroupID  string `json:"group_id"`
		TopK     *int   `json:"top_k"`
	}

	type askResponse struct {
		Message string         `json:"message,omitempty"`
		Answer  *common.Answer `json:"answer,omitempty"`
	}

	data := new(askBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, askResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, askResponse{
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

	answer, err := queryClient.Answer(ctx, groupID, data.Question, resolveTopK(data.TopK))
	if err != nil {
		if errors.Is(err, common.ErrInvalidTopK) {
			return c.JSON(http.StatusBadRequest, askResponse{
				Message: err.Error(),
			})
		}
		logger.Error("Failed to answer question", "group", groupID, "err", err)
		return c.JSON(http.StatusInternalServerError, askResponse{
			Message: "Failed to answer question",
		})
	}

	return c.JSON(http.StatusOK, askResponse{
		Answer: answer,
	})
}
