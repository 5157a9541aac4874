package utils

import (
	"time"

	"github.com/Coobeliues/vector-search/pkg/logger"
)

const (
	DefaultRetryAttempts = 3
	DefaultInitialDelay  = 100 * time.Millisecond
)

// Retry retries a function on transient errors with exponential backoff.
// isTransient decides whether an error is worth another attempt.
func Retry(attempts int, delay time.Duration, operation func() error, isTransient func(error) bool) error {
	var err error
	for i := range attempts {
		err = operation()
		if err == nil {
			return nil // Success
		}

		// Check if the error is transient
		if !isTransient(err) {
			logger.Debug("Non-transient error occurred: %v", err)
			return err // Non-transient error, stop retrying
		}

		logger.Debug("Transient error occurred: %v. Retrying (%d/%d)...", err, i+1, attempts)
		time.Sleep(delay)
		delay *= 2 // Exponential backoff
	}
	logger.Error("Failed after %d attempts: %v", attempts, err)
	return err // Return the last error after exhausting retries
}

// WithRetry runs operation with the package default attempt count and delay.
func WithRetry(operation func() error, isTransient func(error) bool) error {
	return Retry(DefaultRetryAttempts, DefaultInitialDelay, operation, isTransient)
}
