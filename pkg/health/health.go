package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/utafrali/mailer/pkg/httputil"
)

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// Status is the health of a single check or of the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

const checkTimeout = 5 * time.Second

// Response is the body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	critical bool
}

// Handler serves liveness and readiness endpoints.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]check
	now    func() time.Time
}

// NewHandler creates a Handler with no checks.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]check), now: time.Now}
}

// Register adds a critical check.
func (h *Handler) Register(name string, fn Checker) {
	h.RegisterCritical(name, fn)
}

// RegisterCritical adds a check whose failure makes the service not ready.
func (h *Handler) RegisterCritical(name string, fn Checker) {
	h.add(name, check{fn: fn, critical: true})
}

// RegisterNonCritical adds a check whose failure only degrades readiness.
func (h *Handler) RegisterNonCritical(name string, fn Checker) {
	h.add(name, check{fn: fn})
}

func (h *Handler) add(name string, c check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = c
}

// LivenessHandler always answers 200 while the process is serving.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: h.now().UTC()})
	}
}

// ReadinessHandler runs every check concurrently. Any critical failure yields
// 503; non-critical failures yield 200 with status "degraded".
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		h.mu.RLock()
		checks := make(map[string]check, len(h.checks))
		for name, c := range h.checks {
			checks[name] = c
		}
		h.mu.RUnlock()

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results = make(map[string]CheckResult, len(checks))
		)
		for name, c := range checks {
			wg.Add(1)
			go func(name string, c check) {
				defer wg.Done()
				res := CheckResult{Status: StatusUp, Critical: c.critical}
				if err := c.fn(ctx); err != nil {
					res.Status = StatusDown
					res.Error = err.Error()
				}
				mu.Lock()
				results[name] = res
				mu.Unlock()
			}(name, c)
		}
		wg.Wait()

		overall := StatusUp
		for _, res := range results {
			if res.Status != StatusDown {
				continue
			}
			if res.Critical {
				overall = StatusDown
				break
			}
			overall = StatusDegraded
		}

		status := http.StatusOK
		if overall == StatusDown {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, Response{Status: overall, Timestamp: h.now().UTC(), Checks: results})
	}
}
