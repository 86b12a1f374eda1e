package service

import (
	"context"
	"log/slog"

	"todoboard/internal/core/domain"
	"todoboard/internal/core/model/request"
	"todoboard/internal/core/model/response"
	"todoboard/internal/core/port"
	"todoboard/internal/core/util"
)

type AuthService struct {
	users  port.UserRepository
	tokens port.TokenService
}

func NewAuthService(users port.UserRepository, tokens port.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (as *AuthService) Register(ctx context.Context, req *request.RegisterRequest) error {
	existing, err := as.users.GetByEmail(ctx, req.Email)

	if err == nil && existing.Email != "" {
		return domain.BadRequest("User Already Exists")
	}

	hash, err := util.HashPassword(req.Password)

	if err != nil {
		slog.Error("Auth#Register", "hash_password", err)
		return err
	}

	user := domain.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		TokenVersion: 1,
	}

	if _, err := as.users.Create(ctx, user); err != nil {
		return err
	}

	return nil
}

func (as *AuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	user, err := as.users.GetByEmail(ctx, req.Email)

	if err != nil {
		slog.Error("Auth#Login", "get_by_email", err)
		return nil, domain.BadRequest("User Doesn't Exist")
	}

	if err := util.ComparePassword(req.Password, user.PasswordHash); err != nil {
		return nil, domain.BadRequest("Email or Password is incorrect")
	}

	accessToken, err := as.tokens.Issue(domain.TokenPayload{
		ID:           user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
	})

	if err != nil {
		slog.Error("Auth#Login", "issue_token", err)
		return nil, err
	}

	return &response.LoginResponse{
		AccessToken: accessToken,
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
	}, nil
}

// Logout bumps the user's token version, which invalidates every token issued
// with the previous value. Read-then-write without a CAS guard: a concurrent
// logout only forces an extra re-login.
func (as *AuthService) Logout(ctx context.Context, userID int) error {
	user, err := as.users.GetByID(ctx, userID)

	if err != nil {
		return domain.BadRequest("User Doesn't Exist")
	}

	return as.users.UpdateTokenVersion(ctx, user.ID, user.TokenVersion+1)
}
