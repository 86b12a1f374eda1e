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

type TodoService struct {
	todos  port.TodoRepository
	users  port.UserRepository
	cursor *util.CursorCodec
}

func NewTodoService(todos port.TodoRepository, users port.UserRepository, cursor *util.CursorCodec) *TodoService {
	return &TodoService{todos: todos, users: users, cursor: cursor}
}

// authorize runs the per-operation admission checks: the authenticated
// identity must match the path's user id, and that user must still exist.
// The existence lookup repeats the gateway's own check on purpose.
func (ts *TodoService) authorize(ctx context.Context, payload domain.TokenPayload, userID int) error {
	if payload.ID != userID {
		return domain.Unauthorized("Unauthorized")
	}

	if _, err := ts.users.GetByID(ctx, userID); err != nil {
		return domain.NotFound("User not found")
	}

	return nil
}

func (ts *TodoService) Create(ctx context.Context, payload domain.TokenPayload, userID int, req *request.CreateTodoRequest) (*response.TodoResponse, error) {
	if err := ts.authorize(ctx, payload, userID); err != nil {
		return nil, err
	}

	status, err := domain.ParseStatus(req.Status)

	if err != nil {
		return nil, domain.BadRequest(err.Error())
	}

	todo := domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		CreatedBy:   userID,
	}

	saved, err := ts.todos.Create(ctx, todo)

	if err != nil {
		slog.Error("Todo#Create", "error", err, "title", todo.Title)
		return nil, err
	}

	return todoView(saved), nil
}

func (ts *TodoService) GetByID(ctx context.Context, payload domain.TokenPayload, userID int, todoID int) (*response.TodoResponse, error) {
	if err := ts.authorize(ctx, payload, userID); err != nil {
		return nil, err
	}

	// TODO: scope the lookup to created_by once the API contract for
	// cross-user reads is confirmed; today any existing id is returned.
	todo, err := ts.todos.GetByID(ctx, todoID)

	if err != nil {
		return nil, domain.NotFound("todo not found")
	}

	return todoView(todo), nil
}

func (ts *TodoService) ListAll(ctx context.Context, payload domain.TokenPayload, userID int, opts request.ListTodosOptions) (*response.TodoListResponse, error) {
	if err := ts.authorize(ctx, payload, userID); err != nil {
		return nil, err
	}

	if opts.Limit > 0 {
		return ts.listPage(ctx, opts)
	}

	todos, err := ts.todos.GetAll(ctx)

	if err != nil {
		return nil, err
	}

	if len(todos) == 0 {
		return nil, domain.NotFound("No todos found")
	}

	return todoListView(todos, nil), nil
}

func (ts *TodoService) listPage(ctx context.Context, opts request.ListTodosOptions) (*response.TodoListResponse, error) {
	afterID := 0

	if opts.Cursor != "" {
		decoded, err := ts.cursor.Decode(opts.Cursor)
		if err != nil {
			return nil, domain.BadRequest(err.Error())
		}
		afterID = decoded
	}

	todos, hasNext, err := ts.todos.GetAllWithCursor(ctx, opts.Limit, afterID)

	if err != nil {
		return nil, err
	}

	if len(todos) == 0 && opts.Cursor == "" {
		return nil, domain.NotFound("No todos found")
	}

	pagination := &response.Pagination{HasNext: hasNext}

	if hasNext && len(todos) > 0 {
		pagination.NextCursor = ts.cursor.Encode(todos[len(todos)-1].ID)
	}

	return todoListView(todos, pagination), nil
}

func (ts *TodoService) Update(ctx context.Context, payload domain.TokenPayload, userID int, todoID int, req *request.UpdateTodoRequest) (*response.TodoResponse, error) {
	if err := ts.authorize(ctx, payload, userID); err != nil {
		return nil, err
	}

	todo, err := ts.todos.GetByID(ctx, todoID)

	if err != nil {
		return nil, domain.NotFound("Todo not found")
	}

	// Partial merge: only fields present in the request move.
	if req.Title != nil {
		todo.Title = *req.Title
	}

	if req.Description != nil {
		todo.Description = *req.Description
	}

	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, domain.BadRequest(err.Error())
		}
		todo.Status = status
	}

	updated, err := ts.todos.Update(ctx, todo)

	if err != nil {
		slog.Error("Todo#Update", "error", err, "todo_id", todoID)
		return nil, err
	}

	return todoView(updated), nil
}

func (ts *TodoService) Delete(ctx context.Context, payload domain.TokenPayload, userID int, todoID int) error {
	if err := ts.authorize(ctx, payload, userID); err != nil {
		return err
	}

	if _, err := ts.todos.GetByID(ctx, todoID); err != nil {
		return domain.NotFound("Todo Not Found")
	}

	return ts.todos.Delete(ctx, todoID)
}

func todoView(todo domain.Todo) *response.TodoResponse {
	return &response.TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status.String(),
		CreatedBy:   todo.CreatedBy,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func todoListView(todos []domain.Todo, pagination *response.Pagination) *response.TodoListResponse {
	data := make([]response.TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, *todoView(todo))
	}

	return &response.TodoListResponse{
		Size:       len(data),
		Data:       data,
		Pagination: pagination,
	}
}
