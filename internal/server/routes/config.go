package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kgraphrag/backend/internal/config"
)

// GetConfigHandler returns the active configuration with secrets masked.
func GetConfigHandler(c echo.Context) error {
	type configResponse struct {
		Config map[string]string `json:"config"`
	}

	return c.JSON(http.StatusOK, configResponse{
		Config: config.MaskedEnv(),
	})
}

// UpdateConfigHandler applies configuration changes at runtime. Keys that
// only take effect after a restart are reported separately.
func UpdateConfigHandler(c echo.Context) error {
	type updateConfigBody struct {
		Values map[string]string `json:"values" validate:"required"`
	}

	type updateConfigResponse struct {
		Message      string   `json:"message"`
		Applied      []string `json:"applied,omitempty"`
		NeedsRestart []string `json:"needs_restart,omitempty"`
	}

	data := new(updateConfigBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateConfigResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateConfigResponse{
			Message: "Invalid request body",
		})
	}

	applied, needRestart, err := config.UpdateFromEnv(data.Values)
	if err != nil {
		return c.JSON(http.StatusBadRequest, updateConfigResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, updateConfigResponse{
		Message:      "Configuration updated",
		Applied:      applied,
		NeedsRestart: needRestart,
	})
}
