package handlers

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/middlewares"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/recorder"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/response"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/validator"
)

// RecordingLister reads back stored recordings for one owner.
type RecordingLister interface {
	ListRecordings(ctx context.Context, ownerID string) ([]domain.Recording, error)
}

type RecordingHandler struct {
	recorder *recorder.Recorder
	lister   RecordingLister
}

type StartCaptureRequest struct {
	Target string `json:"target" validate:"required,max=32"`
}

type StopCaptureRequest struct {
	SessionID string `json:"sessionId,omitempty" validate:"omitempty,max=64"`
}

func NewRecordingHandler(rec *recorder.Recorder, lister RecordingLister) *RecordingHandler {
	return &RecordingHandler{
		recorder: rec,
		lister:   lister,
	}
}

// StartCapture godoc
// @Summary Start audio capture
// @Description Starts capturing call audio for the given contact
// @Tags recordings
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Param request body StartCaptureRequest true "Capture target"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/recordings/start [post]
func (h *RecordingHandler) StartCapture(c echo.Context) error {
	var req StartCaptureRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	if err := h.recorder.StartCapture(c.Request().Context(), req.Target); err != nil {
		switch {
		case errors.Is(err, recorder.ErrPermissionDenied):
			return response.Forbidden(c, "audio capture permission was denied")
		case errors.Is(err, recorder.ErrAlreadyCapturing):
			return response.Conflict(c, err.Error())
		default:
			return response.InternalServerError(c, err)
		}
	}

	return response.OkWithMessage(c, "Audio capture started", h.recorder.Active())
}

// StopCapture godoc
// @Summary Stop audio capture
// @Description Stops the active capture and stores the recording
// @Tags recordings
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Param request body StopCaptureRequest false "Optional session link"
// @Success 200 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/recordings/stop [post]
func (h *RecordingHandler) StopCapture(c echo.Context) error {
	var req StopCaptureRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	rec, err := h.recorder.StopCapture(c.Request().Context(), middlewares.OwnerID(c), req.SessionID)
	if err != nil {
		if errors.Is(err, recorder.ErrNoActiveCapture) {
			return response.Conflict(c, err.Error())
		}
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Recording saved", rec)
}

// GetActiveCapture godoc
// @Summary Get active capture
// @Description Returns the capture currently in progress, if any
// @Tags recordings
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/recordings/active [get]
func (h *RecordingHandler) GetActiveCapture(c echo.Context) error {
	return response.Ok(c, h.recorder.Active())
}

// ListRecordings godoc
// @Summary List stored recordings
// @Description Returns the authenticated caller's stored recordings
// @Tags recordings
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Param Authorization header string true "Bearer token identifying the owner"
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/recordings [get]
func (h *RecordingHandler) ListRecordings(c echo.Context) error {
	ownerID := middlewares.OwnerID(c)
	if ownerID == "" {
		return response.Unauthorized(c)
	}

	if h.lister == nil {
		return response.Ok(c, []domain.Recording{})
	}

	recordings, err := h.lister.ListRecordings(c.Request().Context(), ownerID)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, recordings)
}
