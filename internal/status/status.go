// Package status summarizes the health of the upstream services the journey
// depends on, for the ops /status endpoint. Checks are sequential and the
// result is cached briefly so the endpoint cannot amplify load upstream.
package status

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Component is the probed state of one upstream dependency.
type Component struct {
	Name   string `json:"name"`
	URL    string `json:"-"`
	Status string `json:"status"` // "ok" or "unreachable"
}

// Summary is the whole-service view.
type Summary struct {
	State      string      `json:"state"` // "ok" or "degraded"
	UpdatedAt  time.Time   `json:"updatedAt"`
	Components []Component `json:"components"`
}

// Checker probes the configured dependencies.
type Checker struct {
	targets []Component
	http    *http.Client

	mu      sync.Mutex
	cached  Summary
	expires time.Time
	ttl     time.Duration
}

// NewChecker builds a Checker over name/baseURL pairs.
func NewChecker(targets map[string]string) *Checker {
	c := &Checker{
		http: &http.Client{Timeout: 3 * time.Second},
		ttl:  30 * time.Second,
	}
	for name, url := range targets {
		c.targets = append(c.targets, Component{Name: name, URL: url})
	}
	return c
}

// SetTTL overrides the cache duration (tests).
func (c *Checker) SetTTL(d time.Duration) { c.ttl = d }

// Check probes each dependency, serving a cached summary when fresh.
func (c *Checker) Check(ctx context.Context) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if time.Now().Before(c.expires) {
		return c.cached
	}

	s := Summary{State: "ok", UpdatedAt: time.Now().UTC()}
	for _, t := range c.targets {
		comp := Component{Name: t.Name, Status: "ok"}
		if !c.reachable(ctx, t.URL) {
			comp.Status = "unreachable"
			s.State = "degraded"
		}
		s.Components = append(s.Components, comp)
	}
	c.cached = s
	c.expires = time.Now().Add(c.ttl)
	return s
}

// reachable treats any HTTP response, including error statuses, as proof of
// life; only transport failures count against a dependency.
func (c *Checker) reachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
