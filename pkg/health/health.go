// Package health provides liveness and readiness probe endpoints backed by
// periodically executed checks.
//
// Checks use consecutive-failure/success thresholds so a single flaky probe
// run does not flip the reported state: a check must fail three times in a
// row to become unhealthy and succeed once to recover.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component and returns nil when it is healthy.
type CheckFunc func(ctx context.Context) error

const (
	failureThreshold = 3
	successThreshold = 1
)

// probe is one registered check plus its runtime state. The counters are
// only touched by the scheduler goroutine; healthy and lastErr are also read
// by HTTP handlers and use atomics.
type probe struct {
	name    string
	timeout time.Duration
	check   CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails int
	oks   int
}

func (p *probe) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(probeCtx)
	p.lastErr.Store(&err)

	if err != nil {
		p.oks = 0
		p.fails++
		if p.fails >= failureThreshold {
			p.healthy.Store(false)
		}
		return
	}
	p.fails = 0
	p.oks++
	if p.oks >= successThreshold {
		p.healthy.Store(true)
	}
}

// Checker runs registered probes and serves /livez and /readyz style
// endpoints from their latest results.
type Checker struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*probe
	readiness []*probe
	cancel    context.CancelFunc
}

// New creates a Checker. The service starts not-ready; call SetReady(true)
// once initialization completes.
func New() *Checker {
	return &Checker{}
}

// AddLiveness registers a liveness probe (is the process functional).
func (c *Checker) AddLiveness(name string, timeout time.Duration, check CheckFunc) {
	c.mu.Lock()
	c.liveness = append(c.liveness, newProbe(name, timeout, check))
	c.mu.Unlock()
}

// AddReadiness registers a readiness probe (can the service take traffic,
// e.g. is the backend API reachable).
func (c *Checker) AddReadiness(name string, timeout time.Duration, check CheckFunc) {
	c.mu.Lock()
	c.readiness = append(c.readiness, newProbe(name, timeout, check))
	c.mu.Unlock()
}

func newProbe(name string, timeout time.Duration, check CheckFunc) *probe {
	p := &probe{name: name, timeout: timeout, check: check}
	p.healthy.Store(true) // healthy until proven otherwise
	return p
}

// Start launches one scheduler goroutine that runs every registered probe at
// the given interval. Probes run once immediately.
func (c *Checker) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	probes := make([]*probe, 0, len(c.liveness)+len(c.readiness))
	probes = append(probes, c.liveness...)
	probes = append(probes, c.readiness...)
	c.mu.Unlock()

	go func() {
		for _, p := range probes {
			p.run(ctx)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, p := range probes {
					p.run(ctx)
				}
			}
		}
	}()
}

// Stop cancels the scheduler goroutine. Safe to call multiple times.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// SetReady flips the manual readiness gate: true after startup, false while
// draining during graceful shutdown.
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness probe
// is passing.
func (c *Checker) IsReady() bool {
	if !c.ready.Load() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.readiness {
		if !p.healthy.Load() {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe: 200 when all liveness checks pass,
// 503 with per-check failure messages otherwise.
func (c *Checker) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	c.mu.RLock()
	probes := append([]*probe(nil), c.liveness...)
	c.mu.RUnlock()

	writeStatus(w, failures(probes))
}

// ReadyEndpoint serves the readiness probe: 200 when the manual gate is open
// and all readiness checks pass.
func (c *Checker) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	c.mu.RLock()
	probes := append([]*probe(nil), c.readiness...)
	c.mu.RUnlock()

	failed := failures(probes)
	if !c.ready.Load() {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

func failures(probes []*probe) map[string]string {
	out := make(map[string]string)
	for _, p := range probes {
		if p.healthy.Load() {
			continue
		}
		msg := "unhealthy"
		if errp := p.lastErr.Load(); errp != nil && *errp != nil {
			msg = (*errp).Error()
		}
		out[p.name] = msg
	}
	return out
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	resp := statusResponse{Status: "ok"}
	if len(failed) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failed
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
