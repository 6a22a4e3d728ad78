package queue

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	rm := NewRetryManager(3, time.Second)

	t.Run("transient failures retry until the budget runs out", func(t *testing.T) {
		task := &Task{ID: "t1", Type: TaskTypeSendEmail, MaxRetries: 3, Attempts: 1}
		retry, delay := rm.ShouldRetry(task, errors.New("smtp: connection refused"))
		assert.True(t, retry)
		assert.Positive(t, delay)

		task.Attempts = 3
		retry, _ = rm.ShouldRetry(task, errors.New("smtp: connection refused"))
		assert.False(t, retry, "attempt budget exhausted")
	})

	t.Run("permanent failures never retry", func(t *testing.T) {
		task := &Task{ID: "t2", Type: TaskTypeSendEmail, MaxRetries: 3, Attempts: 1}
		for _, err := range []error{
			fmt.Errorf("invalid task type: %s", "bogus"),
			errors.New("user not found"),
			errors.New("validation failed: missing recipient"),
		} {
			retry, _ := rm.ShouldRetry(task, err)
			assert.False(t, retry, "error %q must not retry", err)
		}
	})
}

func TestCalculateBackoffGrowsAndCaps(t *testing.T) {
	rm := NewRetryManager(10, time.Second)

	// Jitter is ±25%, so attempt N stays within [0.5, 1.5] of base*2^(N-1)
	// until the 16x cap kicks in.
	for attempt, center := range map[int]time.Duration{
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
	} {
		d := rm.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, d, center/2, "attempt %d", attempt)
		assert.LessOrEqual(t, d, center*3/2, "attempt %d", attempt)
	}

	assert.LessOrEqual(t, rm.calculateBackoff(30), 16*time.Second)
}
