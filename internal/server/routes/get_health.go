package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/server/middleware"
	pgdb "github.com/kgraphrag/backend/pkg/store/pgx"
)

// GetHealthHandler reports service health including database connectivity.
func GetHealthHandler(c echo.Context) error {
	type healthResponse struct {
		Status    string    `json:"status"`
		Database  string    `json:"database"`
		Provider  string    `json:"provider"`
		Timestamp time.Time `json:"timestamp"`
	}

	app := c.(*middleware.AppContext).App

	ctx := c.Request().Context()
	graphStorage := pgdb.NewGraphDBStorageWithConnection(app.DBConn, app.AiClient)

	res := healthResponse{
		Status:    "ok",
		Database:  "ok",
		Provider:  app.Settings.LLMProvider,
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK
	if err := graphStorage.Ping(ctx); err != nil {
		res.Status = "degraded"
		res.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, res)
}
