package tasks

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileStore owns the durable task collection: a single pretty-printed
// JSON array read and rewritten whole on every call. Nothing is cached
// between calls.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileStore{path: path, logger: logger}

	// First boot: materialize an empty collection.
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		if err := s.Save([]Task{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads the whole collection. A read or parse failure degrades to
// an empty collection instead of failing the request; the failure is
// logged because a subsequent Save will then shrink the file.
func (s *FileStore) Load() []Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error("tasks_file_read_failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		return []Task{}
	}

	var out []Task
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.Error("tasks_file_parse_failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		return []Task{}
	}
	if out == nil {
		out = []Task{}
	}
	return out
}

// Save serializes and overwrites the whole collection. The write is
// all-or-nothing from the caller's point of view; a failure here fails
// the request.
func (s *FileStore) Save(all []Task) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// FileRepo implements Repository over a FileStore with a blocking
// read-modify-write cycle per operation. No lock is held across the
// cycle: two concurrent writers can race and the later Save wins.
type FileRepo struct {
	store *FileStore
}

func NewFileRepo(path string, logger *slog.Logger) (*FileRepo, error) {
	store, err := NewFileStore(path, logger)
	if err != nil {
		return nil, err
	}
	return &FileRepo{store: store}, nil
}

func (r *FileRepo) Create(description string, status Status) (Task, error) {
	t, err := newTask(description, status)
	if err != nil {
		return Task{}, err
	}

	all := r.store.Load()
	all = append(all, t)
	if err := r.store.Save(all); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (r *FileRepo) List(filter Status) ([]Task, error) {
	return filterTasks(r.store.Load(), filter), nil
}

func (r *FileRepo) Update(id string, upd UpdateTask) (Task, error) {
	all := r.store.Load()
	for i := range all {
		if all[i].ID == id {
			if err := applyUpdate(&all[i], upd); err != nil {
				return Task{}, err
			}
			if err := r.store.Save(all); err != nil {
				return Task{}, err
			}
			return all[i], nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (r *FileRepo) UpdateStatus(id string, status Status) (Task, error) {
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}

	all := r.store.Load()
	for i := range all {
		if all[i].ID == id {
			all[i].Status = status
			all[i].UpdatedAt = time.Now().UTC()
			if err := r.store.Save(all); err != nil {
				return Task{}, err
			}
			return all[i], nil
		}
	}
	return Task{}, ErrTaskNotFound
}

func (r *FileRepo) Delete(id string) error {
	all := r.store.Load()
	for i := range all {
		if all[i].ID == id {
			all = append(all[:i], all[i+1:]...)
			return r.store.Save(all)
		}
	}
	return ErrTaskNotFound
}
