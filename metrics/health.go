package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const (
	healthOK      = "ok"
	healthTimeout = "timeout"
)

// Check probes one dependency, e.g. Redis or Postgres.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// health runs every check in parallel under one deadline. Any failing or
// late check turns the response into 503.
func health(checks []Check, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		results := make([]string, len(checks))
		var wg sync.WaitGroup
		for i, c := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = probe(ctx, c)
			}()
		}
		wg.Wait()

		report := healthReport{Status: healthOK}
		status := http.StatusOK
		if len(checks) > 0 {
			report.Checks = make(map[string]string, len(checks))
		}
		for i, c := range checks {
			report.Checks[c.Name] = results[i]
			if results[i] != healthOK {
				report.Status = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}

func probe(ctx context.Context, c Check) string {
	done := make(chan error, 1)
	go func() { done <- c.Probe(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return err.Error()
		}
		return healthOK
	case <-ctx.Done():
		return healthTimeout
	}
}
