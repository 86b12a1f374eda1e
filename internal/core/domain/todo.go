package domain

import (
	"fmt"
	"time"
)

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusDone       TodoStatus = "done"
)

type Todo struct {
	ID          int
	Title       string     `validate:"required,max=100"`
	Description string     `validate:"required,max=255"`
	Status      TodoStatus `validate:"oneof=pending in_progress done"`
	CreatedBy   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Todo) BelongsToUser(userID int) bool {
	return t.CreatedBy == userID
}

func (s TodoStatus) String() string {
	return string(s)
}

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusDone:
		return true
	}
	return false
}

// ParseStatus maps a wire literal to a TodoStatus. The empty string falls
// back to pending, which backs the create path's status default.
func ParseStatus(status string) (TodoStatus, error) {
	switch status {
	case "", "pending":
		return TodoStatusPending, nil
	case "in_progress":
		return TodoStatusInProgress, nil
	case "done":
		return TodoStatusDone, nil
	default:
		return "", fmt.Errorf("invalid status: %s", status)
	}
}
