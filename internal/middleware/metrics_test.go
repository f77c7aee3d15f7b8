package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	appmw "github.com/tasktrack/tasks-api/internal/middleware"
)

func TestMetricsCounterIncrements(t *testing.T) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(appmw.MetricsMiddleware)

	r.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})

	// fire one request to increment the counter
	req := httptest.NewRequest(http.MethodGet, "/tasks/abc-123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// scrape /metrics
	mreq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	appmw.MetricsHandler().ServeHTTP(mrec, mreq)
	if mrec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", mrec.Code)
	}

	body := mrec.Body.String()
	if !strings.Contains(body, "http_requests_total") {
		t.Fatalf("expected http_requests_total in metrics output")
	}
	// route pattern, not the raw id, must appear as the path label
	if !strings.Contains(body, `path="/tasks/{id}"`) {
		t.Errorf("expected route-pattern path label, got:\n%s", body)
	}
	if strings.Contains(body, "abc-123") {
		t.Errorf("raw id leaked into metric labels")
	}
}
