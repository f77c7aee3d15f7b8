package tasks

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createTaskRequest struct {
	Description string `json:"description"`
	Status      Status `json:"status"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

type errResponse struct {
	Error string `json:"error"`
}

func RegisterRoutes(r chi.Router, repo Repository) {
	r.Post("/tasks", createTask(repo))
	r.Get("/tasks", listTasks(repo))
	r.Put("/tasks/{id}", updateTask(repo))
	r.Patch("/tasks/{id}/status", updateTaskStatus(repo))
	r.Delete("/tasks/{id}", deleteTask(repo))
}

func createTask(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "Invalid JSON"})
			return
		}

		t, err := repo.Create(req.Description, req.Status)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func listTasks(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		filter := Status(r.URL.Query().Get("status"))
		if filter != "" && !filter.Valid() {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "Invalid status filter"})
			return
		}

		list, err := repo.List(filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errResponse{Error: "Failed to load tasks"})
			return
		}
		if list == nil {
			list = []Task{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func updateTask(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var upd UpdateTask
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "Invalid JSON"})
			return
		}

		t, err := repo.Update(chi.URLParam(r, "id"), upd)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func updateTaskStatus(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errResponse{Error: "Invalid JSON"})
			return
		}

		t, err := repo.UpdateStatus(chi.URLParam(r, "id"), req.Status)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func deleteTask(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Delete(chi.URLParam(r, "id")); err != nil {
			w.Header().Set("Content-Type", "application/json")
			writeRepoError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeRepoError maps repository errors onto the wire contract. A save
// failure is the only path that reaches 500.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDescriptionRequired), errors.Is(err, ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, errResponse{Error: err.Error()})
	case errors.Is(err, ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, errResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errResponse{Error: "Failed to save tasks"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
