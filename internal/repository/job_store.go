package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/traineo/agenda-api/internal/models"
)

// ErrJobNotFound is returned when a job id is unknown to the store.
var ErrJobNotFound = errors.New("import job not found")

// JobStore is the keyed progress store for agenda-import jobs. Only the
// worker owning a job id writes to it; pollers read whatever snapshot was
// last saved.
type JobStore interface {
	Create(ctx context.Context, job *models.ImportJob) error
	Get(ctx context.Context, id string) (*models.ImportJob, error)
	Save(ctx context.Context, job *models.ImportJob) error
}

// MemoryJobStore keeps jobs in process memory. Suitable for single-instance
// deployments and tests.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.ImportJob
}

// NewMemoryJobStore constructs an empty in-memory store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]models.ImportJob)}
}

// Create stores a new job snapshot.
func (s *MemoryJobStore) Create(ctx context.Context, job *models.ImportJob) error {
	return s.Save(ctx, job)
}

// Get returns a copy of the stored snapshot.
func (s *MemoryJobStore) Get(_ context.Context, id string) (*models.ImportJob, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return cloneJob(job), nil
}

// Save overwrites the stored snapshot.
func (s *MemoryJobStore) Save(_ context.Context, job *models.ImportJob) error {
	s.mu.Lock()
	s.jobs[job.ID] = *cloneJob(*job)
	s.mu.Unlock()
	return nil
}

func cloneJob(job models.ImportJob) *models.ImportJob {
	out := job
	out.Warnings = append([]string(nil), job.Warnings...)
	out.Events = append([]models.Event(nil), job.Events...)
	return &out
}

// RedisJobStore keeps job snapshots as JSON values with a TTL, letting
// multiple API instances serve status polls for jobs run elsewhere.
type RedisJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisJobStore constructs a Redis-backed store.
func NewRedisJobStore(client *redis.Client, ttl time.Duration) *RedisJobStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisJobStore{client: client, ttl: ttl}
}

// Create stores a new job snapshot.
func (s *RedisJobStore) Create(ctx context.Context, job *models.ImportJob) error {
	return s.Save(ctx, job)
}

// Get returns the stored snapshot.
func (s *RedisJobStore) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}
	var job models.ImportJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode import job: %w", err)
	}
	return &job, nil
}

// Save overwrites the stored snapshot and refreshes its TTL.
func (s *RedisJobStore) Save(ctx context.Context, job *models.ImportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode import job: %w", err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save import job: %w", err)
	}
	return nil
}

func jobKey(id string) string {
	return "agenda:import:" + id
}
