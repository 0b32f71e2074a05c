package crawler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fitcrawl/fitcrawl/config"
)

// Backoff pause bounds. The pause is independent of the politeness delay:
// politeness spaces healthy traffic, backoff reacts to a host that has
// started failing.
const (
	backoffBase = 5 * time.Second
	backoffMax  = 2 * time.Minute

	// backoffMaxShift caps exponential growth so the shift can never
	// overflow; 5 doublings of the base already exceed backoffMax.
	backoffMaxShift = 5
)

// hostState tracks one host's request pacing and failure history.
type hostState struct {
	limiter    *rate.Limiter
	failures   int
	pauseUntil time.Time
}

// hostPolicy enforces per-host politeness: a minimum delay between
// requests to the same host, plus a backoff pause once a host fails
// several times in a row. It is shared by all workers and safe for
// concurrent use.
//
// Design decision: We use x/time/rate limiters per host rather than
// tracking last-request timestamps because:
//  1. Limiter.Wait handles the sleep and context cancellation for us
//  2. Burst 1 with rate 1/delay is exactly "one request per delay"
//  3. The limiter is already safe for concurrent use
type hostPolicy struct {
	mu    sync.Mutex
	hosts map[string]*hostState

	delay  time.Duration
	policy config.BackoffPolicy
	after  int

	// now is replaceable in tests.
	now func() time.Time
}

func newHostPolicy(cfg *config.Config) *hostPolicy {
	after := cfg.FailureBackoffAfter
	if after <= 0 {
		after = config.DefaultFailureBackoffAfter
	}
	return &hostPolicy{
		hosts:  make(map[string]*hostState),
		delay:  cfg.PerHostDelay,
		policy: cfg.BackoffPolicy,
		after:  after,
		now:    time.Now,
	}
}

// state returns the tracked state for a host, creating it on first use.
func (p *hostPolicy) state(host string) *hostState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.hosts[host]
	if !ok {
		limit := rate.Inf
		if p.delay > 0 {
			limit = rate.Every(p.delay)
		}
		st = &hostState{limiter: rate.NewLimiter(limit, 1)}
		p.hosts[host] = st
	}
	return st
}

// Acquire blocks until a request to the host is permitted: any active
// backoff pause must have elapsed and the politeness delay since the
// previous request must have passed. It returns the context's error if the
// wait is cancelled.
func (p *hostPolicy) Acquire(ctx context.Context, host string) error {
	st := p.state(host)

	p.mu.Lock()
	pause := st.pauseUntil.Sub(p.now())
	p.mu.Unlock()

	if pause > 0 {
		timer := time.NewTimer(pause)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return st.limiter.Wait(ctx)
}

// RecordSuccess resets the host's consecutive-failure count.
func (p *hostPolicy) RecordSuccess(host string) {
	st := p.state(host)
	p.mu.Lock()
	st.failures = 0
	p.mu.Unlock()
}

// RecordFailure counts a failed request against the host. Once the
// consecutive-failure threshold is reached, subsequent requests pause:
// for a fixed interval under the constant policy, doubling per further
// failure under the exponential policy.
func (p *hostPolicy) RecordFailure(host string) {
	st := p.state(host)

	p.mu.Lock()
	defer p.mu.Unlock()

	st.failures++
	if st.failures < p.after {
		return
	}

	pause := backoffBase
	if p.policy == config.BackoffExponential {
		shift := st.failures - p.after
		if shift > backoffMaxShift {
			shift = backoffMaxShift
		}
		pause = backoffBase << shift
		if pause > backoffMax {
			pause = backoffMax
		}
	}
	st.pauseUntil = p.now().Add(pause)
}
