package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/channel"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/engine"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/ingest"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/middlewares"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/response"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/validator"
)

type DispatchHandler struct {
	engine  *engine.Engine
	batches *ingest.BatchCache
	ctx     context.Context
}

type StartDispatchRequest struct {
	Targets      []string `json:"targets,omitempty" validate:"omitempty,min=1,dive,required"`
	Type         string   `json:"type" validate:"required,oneof=call sms whatsapp"`
	MessageBody  string   `json:"messageBody,omitempty" validate:"omitempty,max=1000"`
	Pacing       string   `json:"pacing" validate:"required,oneof=automatic manual broadcast"`
	DelaySeconds *int     `json:"delaySeconds,omitempty" validate:"omitempty,min=1"`
	StaggerMS    *int     `json:"staggerMs,omitempty" validate:"omitempty,min=1"`
	SessionName  string   `json:"sessionName,omitempty" validate:"omitempty,max=100"`
}

func NewDispatchHandler(
	eng *engine.Engine,
	batches *ingest.BatchCache,
	ctx context.Context,
) *DispatchHandler {
	return &DispatchHandler{
		engine:  eng,
		batches: batches,
		ctx:     ctx,
	}
}

// StartDispatch godoc
// @Summary Start a dispatch run
// @Description Starts dispatching the contact queue over the selected channel with the selected pacing
// @Tags dispatch
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Param request body StartDispatchRequest true "Run parameters"
// @Success 200 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/dispatch/start [post]
func (h *DispatchHandler) StartDispatch(c echo.Context) error {
	var req StartDispatchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	targets := req.Targets
	if len(targets) == 0 {
		// Fall back to the most recently uploaded contact batch.
		batch, ok := h.batches.Get()
		if !ok {
			return response.UnprocessableEntity(c, channel.ErrEmptyQueue)
		}
		targets = batch.Targets
	}

	mode := domain.PacingMode{Kind: domain.PacingKind(req.Pacing)}
	if req.DelaySeconds != nil {
		mode.Delay = time.Duration(*req.DelaySeconds) * time.Second
	}
	if req.StaggerMS != nil {
		mode.Stagger = time.Duration(*req.StaggerMS) * time.Millisecond
	}

	params := engine.StartParams{
		Targets:     targets,
		Channel:     domain.Channel(req.Type),
		MessageBody: req.MessageBody,
		Mode:        mode,
		SessionName: req.SessionName,
		OwnerID:     middlewares.OwnerID(c),
	}

	if err := h.engine.Start(h.ctx, params); err != nil {
		switch {
		case errors.Is(err, engine.ErrRunInProgress):
			return response.Conflict(c, err.Error())
		case errors.Is(err, channel.ErrEmptyQueue),
			errors.Is(err, channel.ErrUnknownChannel),
			errors.Is(err, channel.ErrUnknownPacing),
			errors.Is(err, channel.ErrMessageBodyRequired),
			errors.Is(err, channel.ErrBroadcastNotSupported):
			return response.UnprocessableEntity(c, err)
		default:
			return response.InternalServerError(c, err)
		}
	}

	return response.OkWithMessage(c, "Dispatch run started", h.engine.Status())
}

// AdvanceDispatch godoc
// @Summary Advance a manually paced run
// @Description Moves a run waiting on manual confirmation to the next contact
// @Tags dispatch
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Success 200 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/dispatch/advance [post]
func (h *DispatchHandler) AdvanceDispatch(c echo.Context) error {
	if !h.engine.Advance() {
		return response.Conflict(c, "no run is waiting for manual confirmation")
	}

	return response.OkWithMessage(c, "Advanced to next contact", h.engine.Status())
}

// AbortDispatch godoc
// @Summary Abort the active run
// @Description Stops the active run immediately; already-recorded attempts are kept
// @Tags dispatch
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Success 200 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/dispatch/abort [post]
func (h *DispatchHandler) AbortDispatch(c echo.Context) error {
	if !h.engine.Abort() {
		return response.Conflict(c, "no active run to abort")
	}

	// Wait for the run goroutine to acknowledge so the reported status is
	// final, not mid-teardown.
	select {
	case <-h.engine.Done():
	case <-time.After(2 * time.Second):
		return response.InternalServerError(c, fmt.Errorf("run did not stop in time"))
	}

	return response.OkWithMessage(c, "Dispatch run aborted", h.engine.Status())
}

// GetDispatchStatus godoc
// @Summary Get dispatch status
// @Description Returns the current state and progress of the dispatch engine
// @Tags dispatch
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/dispatch/status [get]
func (h *DispatchHandler) GetDispatchStatus(c echo.Context) error {
	return response.Ok(c, h.engine.Status())
}
