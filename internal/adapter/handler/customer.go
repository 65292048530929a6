package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/common"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/presenter"
	callUsecase "github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/call"
)

// Customer handles customer HTTP requests
type Customer struct {
	callService *callUsecase.Service
	logger      *zap.Logger
}

// NewCustomer creates a new customer handler
func NewCustomer(callService *callUsecase.Service, logger *zap.Logger) *Customer {
	return &Customer{
		callService: callService,
		logger:      logger,
	}
}

// List returns the requester's customers. Admins may pass employee_id
// to inspect another employee's book.
// GET /api/customers
func (h *Customer) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	employeeID := user.ID
	if raw := c.QueryParam("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, apperrors.ErrInvalidArgument("invalid employee_id"))
		}
		employeeID = id
	}

	customers, err := h.callService.ListCustomers(c.Request().Context(), user, employeeID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	responses := presenter.ToCustomerResponses(customers)
	return HandleSuccess(h.logger, c, common.NewListResponse(responses, len(responses)))
}

// Get returns a customer and their call history
// GET /api/customers/:id
func (h *Customer) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrCustomerNotFound(c.Param("id")))
	}

	customer, calls, err := h.callService.GetCustomer(c.Request().Context(), user, customerID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"customer": presenter.ToCustomerResponse(customer),
		"calls":    presenter.ToCallResponses(calls),
	})
}
