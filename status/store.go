// Package status tracks render task state so API clients can poll it.
// Two implementations: an in-process store for single-binary deployments
// and a Redis-backed store shared across service instances.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"storyreel/config"
)

// Task states.
const (
	StateQueued     = "queued"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

// maxLogs caps the per-task log ring buffer.
const maxLogs = 50

// LogEntry is a single timestamped log line for a task.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// TaskStatus is the pollable snapshot of one render task.
type TaskStatus struct {
	TaskID      string     `json:"task_id"`
	State       string     `json:"state"`
	Progress    float64    `json:"progress"` // fraction in [0,1]
	FramesDone  int        `json:"frames_done"`
	FrameTotal  int        `json:"frame_total"`
	OutputPath  string     `json:"output_path,omitempty"`
	PublishedID string     `json:"published_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	Logs        []LogEntry `json:"logs,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Store persists task snapshots. Get returns (nil, nil) for unknown tasks.
type Store interface {
	Set(ctx context.Context, st TaskStatus) error
	Get(ctx context.Context, taskID string) (*TaskStatus, error)
}

// AppendLog adds a log line to the snapshot, trimming the ring buffer.
func (t *TaskStatus) AppendLog(message string) {
	t.Logs = append(t.Logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(t.Logs) > maxLogs {
		t.Logs = t.Logs[len(t.Logs)-maxLogs:]
	}
}

// MemoryStore keeps task snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]TaskStatus
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]TaskStatus)}
}

// Set stores a snapshot (thread-safe).
func (s *MemoryStore) Set(ctx context.Context, st TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.UpdatedAt = time.Now()
	s.tasks[st.TaskID] = st
	return nil
}

// Get returns a copy of the snapshot (thread-safe).
func (s *MemoryStore) Get(ctx context.Context, taskID string) (*TaskStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	cp := st
	cp.Logs = append([]LogEntry{}, st.Logs...)
	return &cp, nil
}

// Prune drops tasks not updated within the retention window. Returns the
// number of entries removed.
func (s *MemoryStore) Prune(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for id, st := range s.tasks {
		if st.UpdatedAt.Before(cutoff) {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed
}

// RedisStore keeps task snapshots in Redis with a retention TTL so
// finished tasks age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client, ttl: config.TaskRetention}, nil
}

func taskKey(taskID string) string {
	return "storyreel:task:" + taskID
}

// Set stores the snapshot as JSON under the task key.
func (s *RedisStore) Set(ctx context.Context, st TaskStatus) error {
	st.UpdatedAt = time.Now()
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal task status: %w", err)
	}
	return s.client.Set(ctx, taskKey(st.TaskID), b, s.ttl).Err()
}

// Get fetches and decodes the task snapshot.
func (s *RedisStore) Get(ctx context.Context, taskID string) (*TaskStatus, error) {
	b, err := s.client.Get(ctx, taskKey(taskID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task status: %w", err)
	}
	var st TaskStatus
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode task status: %w", err)
	}
	return &st, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NewFromEnv returns a Redis store when REDIS_ADDR is set, falling back to
// the in-memory store otherwise. Optional: REDIS_PASSWORD, REDIS_DB.
func NewFromEnv() Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set; using in-memory task store")
		return NewMemoryStore()
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	store, err := NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), db)
	if err != nil {
		log.Printf("Warning: %v (falling back to in-memory task store)", err)
		return NewMemoryStore()
	}
	log.Printf("Task store backed by Redis at %s", addr)
	return store
}
