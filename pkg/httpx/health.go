package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// HealthChecker is satisfied by any dependency that exposes a Ping method
// (database.Database, cache.RedisClient and events.EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a dependency name, as reported in the response, to its
// checker.
type HealthChecks map[string]HealthChecker

// Dependency states reported by HealthHandler.
const (
	StatusOK          = "ok"
	StatusDegraded    = "degraded"
	StatusUnreachable = "unreachable"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler probes every checker concurrently under a 2s deadline and
// answers 503 with status "degraded" if any of them fail.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: StatusOK, Checks: make(map[string]string, len(checks))}

		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)
		for name, checker := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				state := StatusOK
				if err := checker.Ping(ctx); err != nil {
					state = StatusUnreachable
				}
				mu.Lock()
				resp.Checks[name] = state
				if state != StatusOK {
					resp.Status = StatusDegraded
				}
				mu.Unlock()
			}()
		}
		wg.Wait()

		status := http.StatusOK
		if resp.Status != StatusOK {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
