package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerProcessesTasks(t *testing.T) {
	var processed atomic.Int32
	runner := NewRunner("test", func(ctx context.Context, task Task) error {
		processed.Add(1)
		return nil
	}, RunnerConfig{Workers: 2})

	runner.Start(context.Background())
	defer runner.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, runner.Enqueue(Task{ID: "t", Type: "noop"}))
	}

	assert.Eventually(t, func() bool {
		return processed.Load() == 5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerRetriesFailedTasks(t *testing.T) {
	var attempts atomic.Int32
	runner := NewRunner("test", func(ctx context.Context, task Task) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	}, RunnerConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})

	runner.Start(context.Background())
	defer runner.Stop()

	require.NoError(t, runner.Enqueue(Task{ID: "t", Type: "flaky"}))

	assert.Eventually(t, func() bool {
		return attempts.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerEnqueueBeforeStart(t *testing.T) {
	runner := NewRunner("test", func(ctx context.Context, task Task) error { return nil }, RunnerConfig{})
	err := runner.Enqueue(Task{ID: "t"})
	require.Error(t, err)
}
