// Package health provides liveness and readiness probes for the simulation
// host.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Check is a single component probe. An error means the component is
// unhealthy.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the aggregated health report.
type Status struct {
	Status string               `json:"status"`
	Checks map[string]Component `json:"checks"`
}

// Component is the health of one registered check.
type Component struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker runs registered checks and serves them over HTTP.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// AddCheck registers a check, replacing any existing check with the same
// name.
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck removes a check by name.
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// CheckHealth runs every registered check. The aggregate is healthy only if
// all components are.
func (c *Checker) CheckHealth(ctx context.Context) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		Status: "healthy",
		Checks: make(map[string]Component),
	}
	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = Component{Status: "unhealthy", Message: err.Error()}
		} else {
			status.Checks[name] = Component{Status: "healthy"}
		}
	}
	return status
}

// LivenessHandler answers 200 whenever the process can serve requests at
// all.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 503 if any fail.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := c.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// SimulationCheck verifies the tick loop is still advancing. A loop that
// has not ticked within maxAge is considered wedged.
type SimulationCheck struct {
	lastTick func() time.Time
	maxAge   time.Duration
}

// NewSimulationCheck creates a tick-freshness check.
func NewSimulationCheck(lastTick func() time.Time, maxAge time.Duration) *SimulationCheck {
	return &SimulationCheck{lastTick: lastTick, maxAge: maxAge}
}

func (s *SimulationCheck) Name() string { return "simulation" }

func (s *SimulationCheck) Check(ctx context.Context) error {
	last := s.lastTick()
	if last.IsZero() {
		return fmt.Errorf("simulation loop has not ticked yet")
	}
	if age := time.Since(last); age > s.maxAge {
		return fmt.Errorf("simulation loop stalled: last tick %v ago", age.Round(time.Millisecond))
	}
	return nil
}

// MemoryCheck verifies memory usage stays under a limit.
type MemoryCheck struct {
	maxMB int64
	usage func() int64
}

// NewMemoryCheck creates a memory usage check. usage reports the current
// footprint in megabytes.
func NewMemoryCheck(maxMB int64, usage func() int64) *MemoryCheck {
	return &MemoryCheck{maxMB: maxMB, usage: usage}
}

func (m *MemoryCheck) Name() string { return "memory" }

func (m *MemoryCheck) Check(ctx context.Context) error {
	if current := m.usage(); current > m.maxMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", current, m.maxMB)
	}
	return nil
}
