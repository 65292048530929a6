package presenter

import (
	authDTO "github.com/Jawad-Naqvi/Call-Companion1/internal/adapter/dto/auth"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/usecase/auth"
)

// ToUserResponse converts a User entity to its public DTO
func ToUserResponse(u *entities.User) *authDTO.UserResponse {
	if u == nil {
		return nil
	}

	return &authDTO.UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		CompanyID:   u.CompanyID,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []*entities.User) []*authDTO.UserResponse {
	out := make([]*authDTO.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// ToAuthResponse converts a usecase auth result to its DTO
func ToAuthResponse(resp *auth.AuthResponse) *authDTO.AuthResponse {
	if resp == nil {
		return nil
	}

	return &authDTO.AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    int(resp.ExpiresIn),
		TokenType:    "Bearer",
		User:         ToUserResponse(resp.User),
	}
}
