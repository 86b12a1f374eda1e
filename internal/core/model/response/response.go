package response

import "time"

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ID          int    `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
}

type TodoResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedBy   int       `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TodoListResponse struct {
	Size       int            `json:"size"`
	Data       []TodoResponse `json:"data"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

type Pagination struct {
	HasNext    bool   `json:"has_next"`
	NextCursor string `json:"next_cursor"`
}
