package tasks

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a task. There is no enforced
// transition graph: any status may follow any other.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrDescriptionRequired = errors.New("Description is required")
	ErrInvalidStatus       = errors.New("Invalid status")
	ErrTaskNotFound        = errors.New("Task not found")
)

// UpdateTask carries the mutable fields of a full update. Empty fields
// leave the stored value unchanged.
type UpdateTask struct {
	Description string `json:"description"`
	Status      Status `json:"status"`
}
