package handler

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	aiDTO "github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/ai"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/common"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/presenter"
	aiUsecase "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/ai"
)

const defaultHistoryLimit = 50

// AI handles chat assistant HTTP requests
type AI struct {
	chatService *aiUsecase.ChatService
	logger      *zap.Logger
}

// NewAI creates a new AI handler
func NewAI(chatService *aiUsecase.ChatService, logger *zap.Logger) *AI {
	return &AI{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat sends a message to the assistant for a customer
// POST /api/ai/chat
func (h *AI) Chat(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req aiDTO.ChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid customer_id"))
	}

	result, err := h.chatService.Chat(c.Request().Context(), user, customerID, req.Message)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, aiDTO.ChatResponse{
		Reply:    result.Reply,
		Model:    result.Model,
		Degraded: result.Degraded,
	})
}

// Messages returns the chat history for a customer
// GET /api/ai/chat/:customerId/messages
func (h *AI) Messages(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrCustomerNotFound(c.Param("customerId")))
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("limit must be a positive integer"))
		}
		limit = n
	}

	messages, err := h.chatService.History(c.Request().Context(), user, customerID, limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	responses := presenter.ToChatMessageResponses(messages)
	return HandleSuccess(h.logger, c, common.NewListResponse(responses, len(responses)))
}

// Ping reports whether the assistant backend is configured
// GET /api/ai/ping
func (h *AI) Ping(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.chatService.Ping())
}
