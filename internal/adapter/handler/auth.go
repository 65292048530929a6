package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/auth"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/common"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/presenter"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	authService *auth.Service
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(authService *auth.Service, logger *zap.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Signup registers a new account
// POST /api/auth/signup
func (h *Auth) Signup(c echo.Context) error {
	var req authDTO.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.authService.Signup(c.Request().Context(), &auth.SignupRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// Login authenticates a user
// POST /api/auth/login
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.authService.Login(c.Request().Context(), &auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *Auth) Refresh(c echo.Context) error {
	var req authDTO.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// Logout acknowledges a logout. Tokens are stateless, so the client
// drops them; there is no server-side session to destroy.
// POST /api/auth/logout
func (h *Auth) Logout(c echo.Context) error {
	return HandleSuccess(h.logger, c, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user))
}

// ListEmployees returns the active employees, admin only. Admins may
// pass company_id to inspect another company.
// GET /api/auth/employees
func (h *Auth) ListEmployees(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	employees, err := h.authService.ListEmployees(c.Request().Context(), user, c.QueryParam("company_id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	responses := presenter.ToUserResponses(employees)
	return HandleSuccess(h.logger, c, common.NewListResponse(responses, len(responses)))
}
