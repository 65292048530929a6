package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	callDTO "github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/call"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/common"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/presenter"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	callUsecase "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/call"
)

// Call handles call recording HTTP requests
type Call struct {
	callService *callUsecase.Service
	logger      *zap.Logger
}

// NewCall creates a new call handler
func NewCall(callService *callUsecase.Service, logger *zap.Logger) *Call {
	return &Call{
		callService: callService,
		logger:      logger,
	}
}

// Upload receives a recorded call as multipart form data
// POST /api/calls/upload
func (h *Call) Upload(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var form callDTO.UploadForm
	if err := bindAndValidate(c, &form); err != nil {
		return HandleError(h.logger, c, err)
	}

	startedAt, err := time.Parse(time.RFC3339, form.StartedAt)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("started_at must be RFC3339"))
	}

	var endedAt *time.Time
	if form.EndedAt != "" {
		t, err := time.Parse(time.RFC3339, form.EndedAt)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("ended_at must be RFC3339"))
		}
		endedAt = &t
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("audio file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrCallUploadFailed(err))
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrCallUploadFailed(err))
	}

	result, err := h.callService.Upload(c.Request().Context(), user, &callUsecase.UploadRequest{
		PhoneNumber:  form.PhoneNumber,
		CustomerName: form.CustomerName,
		Type:         entities.CallType(form.Type),
		StartedAt:    startedAt,
		EndedAt:      endedAt,
		DurationSec:  form.DurationSec,
		Notes:        form.Notes,
		Audio:        audio,
		Filename:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToUploadResponse(result))
}

// List returns the calls visible to the requester
// GET /api/calls
func (h *Call) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var query callDTO.ListQuery
	if err := c.Bind(&query); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	req := &callUsecase.ListRequest{
		PhoneNumber: query.PhoneNumber,
		Status:      query.Status,
		Limit:       query.Limit,
		Offset:      query.Offset,
	}

	if query.EmployeeID != "" {
		id, err := uuid.Parse(query.EmployeeID)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid employee_id"))
		}
		req.EmployeeID = &id
	}
	if query.CustomerID != "" {
		id, err := uuid.Parse(query.CustomerID)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid customer_id"))
		}
		req.CustomerID = &id
	}

	calls, err := h.callService.List(c.Request().Context(), user, req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	responses := presenter.ToCallResponses(calls)
	return HandleSuccess(h.logger, c, common.NewListResponse(responses, len(responses)))
}

// Get returns a call with its transcript and summary
// GET /api/calls/:id
func (h *Call) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	callID, err := parseCallID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	detail, err := h.callService.Get(c.Request().Context(), user, callID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToDetailResponse(detail))
}

// StreamAudio serves the stored recording
// GET /api/calls/:id/audio
func (h *Call) StreamAudio(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	callID, err := parseCallID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	// redirect=true serves a presigned object store URL instead of
	// proxying the bytes. Calls without an object copy fall through
	// to streaming.
	if redirect, _ := strconv.ParseBool(c.QueryParam("redirect")); redirect {
		url, err := h.callService.AudioLink(c.Request().Context(), user, callID)
		if err == nil {
			return c.Redirect(http.StatusFound, url)
		}
	}

	stream, err := h.callService.StreamAudio(c.Request().Context(), user, callID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer stream.Reader.Close()

	mime := stream.Mime
	if mime == "" {
		mime = "application/octet-stream"
	}

	return c.Stream(200, mime, stream.Reader)
}

// Delete removes a call and its stored audio
// DELETE /api/calls/:id
func (h *Call) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	callID, err := parseCallID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.callService.Delete(c.Request().Context(), user, callID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"id": callID.String()})
}

// Transcribe enqueues a transcription job
// POST /api/calls/:id/transcribe
func (h *Call) Transcribe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	callID, err := parseCallID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, err := h.callService.RequestTranscription(c.Request().Context(), user, callID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToJobResponse(job))
}

// Summarize enqueues a summary job
// POST /api/calls/:id/summary
func (h *Call) Summarize(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	callID, err := parseCallID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, err := h.callService.RequestSummary(c.Request().Context(), user, callID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToJobResponse(job))
}

func parseCallID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrCallNotFound(c.Param("id"))
	}
	return id, nil
}
