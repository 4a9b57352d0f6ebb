package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesTasks(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	done := make(chan struct{}, 3)

	queue := NewQueue("test", func(_ context.Context, task Task) error {
		mu.Lock()
		seen = append(seen, task.ID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})

	queue.Start(context.Background())
	defer queue.Stop()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, queue.Enqueue(Task{ID: id, Type: "unit"}))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	queue := NewQueue("test", func(context.Context, Task) error { return nil }, QueueConfig{})

	err := queue.Enqueue(Task{ID: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestQueueDoesNotRetryFailedTasks(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{}, 1)

	queue := NewQueue("test", func(context.Context, Task) error {
		mu.Lock()
		attempts++
		mu.Unlock()
		done <- struct{}{}
		return errors.New("boom")
	}, QueueConfig{Workers: 1})

	queue.Start(context.Background())
	require.NoError(t, queue.Enqueue(Task{ID: "a"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
	queue.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, attempts)
}

func TestQueueStampsEnqueueTime(t *testing.T) {
	received := make(chan Task, 1)
	queue := NewQueue("test", func(_ context.Context, task Task) error {
		received <- task
		return nil
	}, QueueConfig{})

	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task{ID: "a"}))
	select {
	case task := <-received:
		assert.False(t, task.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}
