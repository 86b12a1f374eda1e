package port

import (
	"context"

	"todoboard/internal/core/domain"
	"todoboard/internal/core/model/request"
	"todoboard/internal/core/model/response"
)

type TodoRepository interface {
	GetByID(ctx context.Context, id int) (domain.Todo, error)
	GetAll(ctx context.Context) ([]domain.Todo, error)
	GetAllWithCursor(ctx context.Context, limit int, afterID int) ([]domain.Todo, bool, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id int) error
}

type TodoService interface {
	Create(ctx context.Context, payload domain.TokenPayload, userID int, req *request.CreateTodoRequest) (*response.TodoResponse, error)
	GetByID(ctx context.Context, payload domain.TokenPayload, userID int, todoID int) (*response.TodoResponse, error)
	ListAll(ctx context.Context, payload domain.TokenPayload, userID int, opts request.ListTodosOptions) (*response.TodoListResponse, error)
	Update(ctx context.Context, payload domain.TokenPayload, userID int, todoID int, req *request.UpdateTodoRequest) (*response.TodoResponse, error)
	Delete(ctx context.Context, payload domain.TokenPayload, userID int, todoID int) error
}
