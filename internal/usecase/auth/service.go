package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/Jawad-Naqvi/Call-Companion1/errors"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/repositories"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/jwt"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/password"
)

// Service handles signup, login and token validation
type Service struct {
	userRepo   repositories.UserRepository
	jwtManager *jwt.Manager
}

// NewService creates a new auth service
func NewService(userRepo repositories.UserRepository, jwtManager *jwt.Manager) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin employee"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
}

// Signup registers a new user account. Role defaults to employee
// unless the request asks for admin explicitly.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email := entities.NormalizeEmail(req.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrUserAlreadyExists(email)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.NewUser(email, hash, req.Name)
	if req.Role == string(entities.RoleAdmin) {
		user.Role = entities.RoleAdmin
	}

	if err := user.Validate(); err != nil {
		return nil, apperrors.ErrInvalidArgument(err.Error())
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

// Login authenticates a user by email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, entities.NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials()
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials()
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled()
	}

	user.UpdateLastLogin()
	// Login still succeeds when the timestamp write fails
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound()
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled()
	}

	return s.issueTokens(user)
}

// ValidateToken validates an access token and loads the user behind it
func (s *Service) ValidateToken(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound()
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled()
	}

	return user, nil
}

// GetUser loads a user by ID
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound()
	}
	return user, nil
}

// ListEmployees returns the active employees visible to an admin.
// Non-admin callers are rejected. An empty companyID defaults to the
// requester's own company.
func (s *Service) ListEmployees(ctx context.Context, requester *entities.User, companyID string) ([]*entities.User, error) {
	if !requester.IsAdmin() {
		return nil, apperrors.ErrForbidden("admin role required")
	}

	if companyID == "" {
		companyID = requester.CompanyID
	}

	employees, err := s.userRepo.ListEmployees(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (s *Service) issueTokens(user *entities.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}
