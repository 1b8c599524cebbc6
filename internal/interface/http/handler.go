package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/watermate/internal/domain/watering"
)

// Handler wires the HTTP transport to the watering service.
type Handler struct {
	wateringSvc watering.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(wateringSvc watering.Service, logger *slog.Logger) *Handler {
	return &Handler{
		wateringSvc: wateringSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// PlanInterval recomputes the watering interval of one plant.
func (h *Handler) PlanInterval(c *gin.Context) {
	var req watering.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.wateringSvc.Plan(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PlanBatch recomputes several intervals; item failures are reported inline.
func (h *Handler) PlanBatch(c *gin.Context) {
	var req watering.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.wateringSvc.PlanBatch(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Forecast returns the modeled daily exposure for a window.
func (h *Handler) Forecast(c *gin.Context) {
	var query watering.ForecastQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.wateringSvc.Forecast(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSpecies returns the catalogued plant light profiles.
func (h *Handler) ListSpecies(c *gin.Context) {
	profiles, err := h.wateringSvc.Species(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"species": profiles})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
