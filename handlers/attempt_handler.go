package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/attemptlog"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/middlewares"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/export"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/response"
)

// SessionAttemptLister reads the remote mirror of one session's attempts.
type SessionAttemptLister interface {
	ListSessionAttempts(ctx context.Context, ownerID, sessionID string) ([]domain.AttemptRecord, error)
}

type AttemptHandler struct {
	log    *attemptlog.Log
	mirror SessionAttemptLister
}

func NewAttemptHandler(log *attemptlog.Log, mirror SessionAttemptLister) *AttemptHandler {
	return &AttemptHandler{
		log:    log,
		mirror: mirror,
	}
}

// GetAttempts godoc
// @Summary Get attempt history
// @Description Retrieves a paginated list of dispatch attempts in log order
// @Tags attempts
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for attempts"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/attempts [get]
func (h *AttemptHandler) GetAttempts(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	attempts, totalCount, err := h.log.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, attempts, page, pageSize, totalCount)
}

// GetStats godoc
// @Summary Get attempt statistics
// @Description Returns per-channel attempt counts plus failures
// @Tags attempts
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for attempts"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/attempts/stats [get]
func (h *AttemptHandler) GetStats(c echo.Context) error {
	stats, err := h.log.Stats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"calls":    stats.Calls,
		"sms":      stats.SMS,
		"whatsapp": stats.WhatsApp,
		"failed":   stats.Failed,
		"total":    stats.Total,
	})
}

// ExportAttempts godoc
// @Summary Export attempt history as CSV
// @Description Streams the full attempt log as a CSV download
// @Tags attempts
// @Produce text/csv
// @Param x-auth-key header string true "API key for attempts"
// @Success 200 {string} string "CSV body"
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/attempts/export [get]
func (h *AttemptHandler) ExportAttempts(c echo.Context) error {
	attempts, err := h.log.ListAll(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	filename := fmt.Sprintf("attempts-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	return export.WriteAttemptsCSV(c.Response(), attempts)
}

// ClearAttempts godoc
// @Summary Clear local attempt history
// @Description Deletes the local attempt log; remote session mirrors are untouched
// @Tags attempts
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for attempts"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/attempts [delete]
func (h *AttemptHandler) ClearAttempts(c echo.Context) error {
	if err := h.log.Clear(c.Request().Context()); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Attempt history cleared", nil)
}

// GetSessionAttempts godoc
// @Summary Get one session's mirrored attempts
// @Description Returns the remote attempt mirror of one session, in append order
// @Tags attempts
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for attempts"
// @Param Authorization header string true "Bearer token identifying the owner"
// @Param id path string true "Session ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/attempts/sessions/{id} [get]
func (h *AttemptHandler) GetSessionAttempts(c echo.Context) error {
	ownerID := middlewares.OwnerID(c)
	if ownerID == "" {
		return response.Unauthorized(c)
	}

	if h.mirror == nil {
		return response.Ok(c, []domain.AttemptRecord{})
	}

	attempts, err := h.mirror.ListSessionAttempts(c.Request().Context(), ownerID, c.Param("id"))
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, attempts)
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
