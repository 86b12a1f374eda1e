package port

import (
	"context"

	"todoboard/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateTokenVersion(ctx context.Context, id int, version int) error
}
