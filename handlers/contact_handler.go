package handlers

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/ingest"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/response"
)

type ContactHandler struct {
	batches *ingest.BatchCache
}

func NewContactHandler(batches *ingest.BatchCache) *ContactHandler {
	return &ContactHandler{batches: batches}
}

// UploadContacts godoc
// @Summary Upload a contact workbook
// @Description Parses an xlsx workbook (first sheet, first column) into the active contact batch
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Param file formData file true "Contact workbook (.xlsx)"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/contacts/upload [post]
func (h *ContactHandler) UploadContacts(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, fmt.Errorf("missing file upload: %w", err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, fmt.Errorf("failed to open upload: %w", err))
	}
	defer func() { _ = file.Close() }()

	batch, err := ingest.ParseWorkbook(file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, ingest.ErrNoTargets) {
			return response.UnprocessableEntity(c, err)
		}
		return response.BadRequest(c, err)
	}

	h.batches.Set(batch)

	return response.OkWithMessage(c, "Contact batch uploaded", map[string]any{
		"label": batch.Label,
		"count": len(batch.Targets),
	})
}

// GetContacts godoc
// @Summary Get the active contact batch
// @Description Returns the most recently uploaded contact batch
// @Tags contacts
// @Accept json
// @Produce json
// @Param x-auth-key header string true "API key for dispatch"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/contacts [get]
func (h *ContactHandler) GetContacts(c echo.Context) error {
	batch, ok := h.batches.Get()
	if !ok {
		return response.NotFound(c, "no contact batch has been uploaded")
	}

	return response.Ok(c, batch)
}
