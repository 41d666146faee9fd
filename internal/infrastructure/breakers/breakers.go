package breakers

import (
	"time"

	cb "github.com/sony/gobreaker"
)

// Breaker wraps a provider call with a circuit breaker so a flapping
// upstream trips fast instead of burning the request budget.
type Breaker struct{ cb *cb.CircuitBreaker }

// New builds a breaker that trips on 3 consecutive failures, or on a
// >5% failure rate once 20 requests have been seen in the window.
func New(name string) *Breaker {
	st := cb.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		total := counts.Requests
		if total < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(total) > 0.05
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

func (b *Breaker) Execute(fn func() (any, error)) (any, error) { return b.cb.Execute(fn) }

// State returns the breaker state string for health reporting.
func (b *Breaker) State() string { return b.cb.State().String() }
