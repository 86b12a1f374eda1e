package request

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
}

type CreateTodoRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=255"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress done"`
}

// UpdateTodoRequest carries a partial merge: nil fields are left untouched
// on the stored record.
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=255"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress done"`
}

// ListTodosOptions are the optional query parameters on the list endpoint.
// The zero value returns the full list.
type ListTodosOptions struct {
	Limit  int
	Cursor string
}
