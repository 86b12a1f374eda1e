package port

import (
	"context"

	"todoboard/internal/core/model/request"
	"todoboard/internal/core/model/response"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Logout(ctx context.Context, userID int) error
}
