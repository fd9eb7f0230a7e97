package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports that the remote document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork covers transport failures and unexpected HTTP statuses.
	ErrNetwork = errors.New("network error")
)

// retryable marks a failure as transient. It is transparent to errors.Is
// and to the error message.
type retryable struct{ error }

func (r retryable) Unwrap() error { return r.error }

// Retryable marks err as transient so [Retry] tries again. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

// Retry calls fn until it succeeds, returns an error not marked with
// [Retryable], or has been called attempts times. The wait between calls
// starts at delay and doubles each time. Cancelling ctx during a wait
// returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	err := fn()
	for n := 1; n < attempts && IsRetryable(err); n++ {
		wait := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			wait.Stop()
			return ctx.Err()
		case <-wait.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
