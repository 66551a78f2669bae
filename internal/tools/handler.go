package tools

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicaproativa/agenda/internal/domain/clinicerr"
)

type Handler struct {
	registry *Registry
	logger   zerolog.Logger
}

func NewHandler(registry *Registry, logger zerolog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/tools", h.ListTools)
	g.POST("/tools/:name", h.InvokeTool)
}

// ListTools returns the tool catalog: name, description and input schema for
// every registered tool, in registration order.
func (h *Handler) ListTools(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tools": h.registry.List(),
	})
}

// InvokeTool validates the JSON body against the tool's schema and runs it.
// Domain errors map onto HTTP statuses: validation 400, not found 404,
// conflict 409; anything else is an internal error.
func (h *Handler) InvokeTool(c echo.Context) error {
	name := c.Param("name")

	var args map[string]interface{}
	if err := c.Bind(&args); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object")
	}

	result, err := h.registry.Invoke(c.Request().Context(), name, args)
	if err != nil {
		rid, _ := c.Get("request_id").(string)
		h.logger.Warn().
			Str("request_id", rid).
			Str("tool", name).
			Err(err).
			Msg("tool invocation failed")
		return toHTTPError(err)
	}

	h.logger.Info().
		Str("tool", name).
		Msg("tool invoked")
	return c.JSON(http.StatusOK, map[string]interface{}{"result": result})
}

func toHTTPError(err error) error {
	var (
		ve  *clinicerr.ValidationError
		nfe *clinicerr.NotFoundError
		ce  *clinicerr.ConflictError
	)
	switch {
	case errors.Is(err, ErrUnknownTool):
		return echo.NewHTTPError(http.StatusNotFound, "unknown tool")
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	case errors.As(err, &nfe):
		return echo.NewHTTPError(http.StatusNotFound, nfe.Message)
	case errors.As(err, &ce):
		return echo.NewHTTPError(http.StatusConflict, ce.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
