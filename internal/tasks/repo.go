package tasks

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the storage contract for the task collection. List with
// an empty filter returns every task in insertion order; a non-empty
// filter must already be validated by the caller.
type Repository interface {
	Create(description string, status Status) (Task, error)
	List(filter Status) ([]Task, error)
	Update(id string, upd UpdateTask) (Task, error)
	UpdateStatus(id string, status Status) (Task, error)
	Delete(id string) error
}

// InMemoryRepo keeps tasks in a slice so listing preserves insertion
// order. The mutex guards the slice, not cross-request semantics.
type InMemoryRepo struct {
	mu    sync.Mutex
	tasks []Task
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{}
}

func newTask(description string, status Status) (Task, error) {
	if strings.TrimSpace(description) == "" {
		return Task{}, ErrDescriptionRequired
	}
	if status == "" {
		status = StatusTodo
	}
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	now := time.Now().UTC()
	return Task{
		ID:          uuid.NewString(),
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// applyUpdate mutates t in place. Empty fields are left unchanged so a
// partial body never blanks a stored value.
func applyUpdate(t *Task, upd UpdateTask) error {
	if upd.Status != "" && !upd.Status.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(upd.Description) != "" {
		t.Description = upd.Description
	}
	if upd.Status != "" {
		t.Status = upd.Status
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func filterTasks(all []Task, filter Status) []Task {
	if filter == "" {
		return all
	}
	out := make([]Task, 0, len(all))
	for _, t := range all {
		if t.Status == filter {
			out = append(out, t)
		}
	}
	return out
}

func (r *InMemoryRepo) Create(description string, status Status) (Task, error) {
	t, err := newTask(description, status)
	if err != nil {
		return Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *InMemoryRepo) List(filter Status) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := filterTasks(r.tasks, filter)
	cp := make([]Task, len(out))
	copy(cp, out)
	return cp, nil
}

func (r *InMemoryRepo) Update(id string, upd UpdateTask) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			if err := applyUpdate(&r.tasks[i], upd); err != nil {
				return Task{}, err
			}
			return r.tasks[i], nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (r *InMemoryRepo) UpdateStatus(id string, status Status) (Task, error) {
	// Status is checked before the existence lookup.
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Status = status
			r.tasks[i].UpdatedAt = time.Now().UTC()
			return r.tasks[i], nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (r *InMemoryRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return ErrTaskNotFound
}
