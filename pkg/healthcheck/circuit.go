package healthcheck

import (
	"context"
	"sync"
	"time"
)

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for circuit breaker
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int
	// Timeout is how long an open circuit serves the last result
	Timeout time.Duration
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breakers
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		Timeout:          time.Minute,
	}
}

// CircuitBreakerChecker stops calling a failing checker for a while and
// reports its last result instead. Used for the generator ping, which
// costs an upstream request.
type CircuitBreakerChecker struct {
	checker Checker
	config  CircuitBreakerConfig
	now     func() time.Time

	mu          sync.Mutex
	state       CircuitBreakerState
	failures    int
	openedAt    time.Time
	lastFailure Check
}

// NewCircuitBreakerChecker wraps checker
func NewCircuitBreakerChecker(checker Checker, config CircuitBreakerConfig) *CircuitBreakerChecker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	return &CircuitBreakerChecker{
		checker: checker,
		config:  config,
		now:     time.Now,
		state:   StateClosed,
	}
}

// State returns the current state
func (c *CircuitBreakerChecker) State() CircuitBreakerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Check runs the wrapped checker unless the circuit is open
func (c *CircuitBreakerChecker) Check(ctx context.Context) Check {
	c.mu.Lock()
	if c.state == StateOpen {
		if c.now().Sub(c.openedAt) < c.config.Timeout {
			check := c.lastFailure
			c.mu.Unlock()
			return c.annotate(check, StateOpen)
		}
		c.state = StateHalfOpen
	}
	c.mu.Unlock()

	check := c.checker.Check(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if check.Status == StatusHealthy {
		c.state = StateClosed
		c.failures = 0
		return c.annotate(check, c.state)
	}

	c.failures++
	c.lastFailure = check
	if c.state == StateHalfOpen || c.failures >= c.config.FailureThreshold {
		c.state = StateOpen
		c.openedAt = c.now()
	}
	return c.annotate(check, c.state)
}

func (c *CircuitBreakerChecker) annotate(check Check, state CircuitBreakerState) Check {
	metadata := map[string]interface{}{}
	if existing, ok := check.Metadata.(map[string]interface{}); ok {
		for k, v := range existing {
			metadata[k] = v
		}
	}
	metadata["circuit_breaker_state"] = state.String()
	check.Metadata = metadata
	return check
}
