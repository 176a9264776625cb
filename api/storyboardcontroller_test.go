package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storyreel/status"
	"storyreel/types"
)

type recordingRunner struct {
	mu   sync.Mutex
	jobs []types.RenderJob
	done chan struct{}
}

func (r *recordingRunner) Run(ctx context.Context, job *types.RenderJob) error {
	r.mu.Lock()
	r.jobs = append(r.jobs, *job)
	r.mu.Unlock()
	close(r.done)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *recordingRunner, *status.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	run := &recordingRunner{done: make(chan struct{})}
	store := status.NewMemoryStore()
	return NewRouter(NewStoryboardController(run, store)), run, store
}

func TestSubmitStoryboard(t *testing.T) {
	router, run, store := newTestRouter(t)

	body := `{"storyboard":{"title":"Demo","frames":[{"index":0,"narration":"Hello world"}]},"config":{"tts_mode":"local"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storyboards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d; want 202: %s", w.Code, w.Body.String())
	}

	var resp SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TaskID == "" {
		t.Fatal("response has no task id")
	}

	// The task must be pollable before the render finishes.
	st, err := store.Get(context.Background(), resp.TaskID)
	if err != nil || st == nil {
		t.Fatalf("queued task not in store: %v", err)
	}
	if st.State != status.StateQueued || st.FrameTotal != 1 {
		t.Errorf("queued snapshot = %+v", st)
	}

	select {
	case <-run.done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner was never invoked")
	}
	if run.jobs[0].TaskID != resp.TaskID {
		t.Errorf("runner saw task %q; want %q", run.jobs[0].TaskID, resp.TaskID)
	}
}

func TestSubmitRejectsEmptyStoryboard(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/storyboards", strings.NewReader(`{"storyboard":{"frames":[]}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestTaskStatusEndpoint(t *testing.T) {
	router, _, store := newTestRouter(t)

	store.Set(context.Background(), status.TaskStatus{
		TaskID:   "known",
		State:    status.StateProcessing,
		Progress: 0.5,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/known", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var st status.TaskStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != status.StateProcessing || st.Progress != 0.5 {
		t.Errorf("snapshot = %+v", st)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown task status = %d; want 404", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
}
