package queue

import (
	"math/rand"
	"strings"
	"time"
)

// RetryManager decides whether a failed task gets another attempt and how
// long to wait before it. Delivery failures (SMTP down, Telegram flaky)
// retry with exponential backoff; malformed tasks fail immediately.
type RetryManager struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewRetryManager(maxRetries int, baseDelay time.Duration) *RetryManager {
	return &RetryManager{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   baseDelay * 16,
	}
}

func (r *RetryManager) ShouldRetry(task *Task, err error) (bool, time.Duration) {
	if task.Attempts >= task.MaxRetries {
		return false, 0
	}

	if !r.isRetryableError(err) {
		return false, 0
	}

	return true, r.calculateBackoff(task.Attempts)
}

// isRetryableError treats handler errors that describe the task itself
// (bad payload, unknown recipient) as permanent; a retry cannot fix them.
func (r *RetryManager) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	nonRetryablePatterns := []string{
		"invalid",
		"not found",
		"permission denied",
		"validation failed",
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range nonRetryablePatterns {
		if strings.Contains(errStr, pattern) {
			return false
		}
	}

	return true
}

// calculateBackoff doubles the delay per attempt with ±25% jitter, capped
// at 16x the base delay.
func (r *RetryManager) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return r.baseDelay
	}

	backoff := r.baseDelay * time.Duration(1<<(attempt-1))

	jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
	if rand.Intn(2) == 0 {
		backoff += jitter
	} else {
		backoff -= jitter
	}

	if backoff > r.maxDelay {
		backoff = r.maxDelay
	}

	return backoff
}
