package status

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	st := TaskStatus{TaskID: "t1", State: StateProcessing, Progress: 0.4, FrameTotal: 5}
	st.AppendLog("frame 2 started")
	if err := s.Set(ctx, st); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := s.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored task")
	}
	if got.State != StateProcessing || got.Progress != 0.4 || len(got.Logs) != 1 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Set should stamp UpdatedAt")
	}

	// The returned snapshot is a copy; mutating it must not leak back.
	got.Logs[0].Message = "tampered"
	again, _ := s.Get(ctx, "t1")
	if again.Logs[0].Message != "frame 2 started" {
		t.Error("Get returned a shared log slice")
	}
}

func TestMemoryStoreUnknownTask(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Errorf("Get for unknown task = %+v; want nil", got)
	}
}

func TestAppendLogRingBuffer(t *testing.T) {
	var st TaskStatus
	for i := 0; i < maxLogs+10; i++ {
		st.AppendLog("line")
	}
	if len(st.Logs) != maxLogs {
		t.Errorf("logs kept = %d; want %d", len(st.Logs), maxLogs)
	}
}

func TestMemoryStorePrune(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Set(ctx, TaskStatus{TaskID: "old", State: StateCompleted})
	s.Set(ctx, TaskStatus{TaskID: "fresh", State: StateProcessing})

	// Backdate the first entry past the cutoff.
	s.mu.Lock()
	old := s.tasks["old"]
	old.UpdatedAt = time.Now().Add(-2 * time.Hour)
	s.tasks["old"] = old
	s.mu.Unlock()

	if removed := s.Prune(time.Hour); removed != 1 {
		t.Errorf("Prune removed %d; want 1", removed)
	}
	if got, _ := s.Get(ctx, "old"); got != nil {
		t.Error("pruned task still present")
	}
	if got, _ := s.Get(ctx, "fresh"); got == nil {
		t.Error("fresh task was pruned")
	}
}
