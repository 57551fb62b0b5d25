package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/pkg/store"
)

// HealthHandler handles health checks.
type HealthHandler struct {
	db           *sqlx.DB
	store        *store.Client
	checkTimeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, storeClient *store.Client) *HealthHandler {
	return &HealthHandler{
		db:           db,
		store:        storeClient,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status and basic component statuses (DB and the
// remote store).
// @Summary Health check
// @Description Returns overall status with database and store connectivity results
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	dbStatus := "up"
	if h.db == nil {
		dbStatus = "down"
		overallStatus = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "down"
		overallStatus = "down"
	}

	storeStatus := "disabled"
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			storeStatus = "down"
			overallStatus = "degraded"
		} else {
			storeStatus = "up"
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"database": map[string]any{
				"status": dbStatus,
			},
			"store": map[string]any{
				"status": storeStatus,
			},
		},
	})
}
