package handlers

import (
	"context"
	"net/http"
	"time"

	"spinecrm/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const Version = "1.0.0"

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles service banner and health check endpoints
type HealthHandlers struct {
	db        Pinger
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db Pinger) *HealthHandlers {
	return &HealthHandlers{db: db, startedAt: time.Now()}
}

// Register mounts /, /health and /health/ready
func (h *HealthHandlers) Register(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.HealthCheck)
	e.GET("/health/ready", h.ReadinessCheck)
}

// Root godoc
// @Summary  Service banner
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   / [get]
func (h *HealthHandlers) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Spine CRM API is running",
		"version": Version,
		"docs":    "/docs",
	})
}

// HealthCheck godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// ReadinessCheck godoc
// @Summary  Readiness probe, checks the database
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromEcho(c).Warn("readiness check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}
