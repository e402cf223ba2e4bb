// Package consistency reads records from stores that only become
// consistent some time after a write, such as a lagging read replica.
package consistency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a single-attempt read finds nothing.
var ErrNotFound = errors.New("consistency: record not found")

// ExhaustedError is returned when every attempt of a multi-attempt read
// came back empty. It does not match ErrNotFound.
type ExhaustedError struct {
	Attempts int
	Delay    time.Duration
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("consistency: record not visible after %d attempts (%s apart)", e.Attempts, e.Delay)
}

// IsExhausted reports whether err is an ExhaustedError.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}

// Policy bounds a read.
type Policy struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
}

// DefaultPolicy is three attempts one second apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: time.Second}
}

// Single is a policy that never retries.
func Single() Policy {
	return Policy{MaxAttempts: 1}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// Query performs one read. found=false means the record is not visible
// yet. A non-nil error aborts the read without further attempts.
type Query[T any] func(ctx context.Context) (value T, found bool, err error)

// Observer is told how each read ended.
type Observer interface {
	ObserveRead(collection string, attempts int, found bool)
}

// Option configures a single Fetch call.
type Option func(*options)

type options struct {
	collection string
	logger     *zap.Logger
	observer   Observer
}

// WithCollection names the data being read in logs and observations.
func WithCollection(name string) Option {
	return func(o *options) { o.collection = name }
}

// WithLogger logs every empty attempt at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver reports the outcome of the read.
func WithObserver(observer Observer) Option {
	return func(o *options) { o.observer = observer }
}

// Fetch runs query until it finds a value, fails, or the policy's attempts
// are used up, sleeping policy.Delay between attempts. Cancelling ctx stops
// the wait and returns ctx.Err().
func Fetch[T any](ctx context.Context, policy Policy, query Query[T], opts ...Option) (T, error) {
	o := options{collection: "record", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	policy = policy.normalized()

	var zero T
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		value, found, err := query(ctx)
		if err != nil {
			return zero, err
		}
		if found {
			o.observe(attempt, true)
			return value, nil
		}
		if attempt == policy.MaxAttempts {
			break
		}

		o.logger.Debug("Record not visible yet, retrying",
			zap.String("collection", o.collection),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Duration("delay", policy.Delay),
		)

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	o.observe(policy.MaxAttempts, false)
	if policy.MaxAttempts == 1 {
		return zero, ErrNotFound
	}
	return zero, &ExhaustedError{Attempts: policy.MaxAttempts, Delay: policy.Delay}
}

func (o options) observe(attempts int, found bool) {
	if o.observer != nil {
		o.observer.ObserveRead(o.collection, attempts, found)
	}
}
