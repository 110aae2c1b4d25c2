// Package health exposes liveness and readiness probes for the API and the
// sweep worker.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingDB(ctx context.Context, timeout time.Duration) error
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// Handler serves the health endpoints.
type Handler struct {
	Checker      Checker
	DBTimeout    time.Duration
	RedisTimeout time.Duration
}

// Live reports process liveness and never touches dependencies.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready probes each dependency and reports per-check results. The shutdown
// gate short-circuits to 503 so load balancers drain the instance.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !IsReady() || h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}

	checks := make(map[string]string, 2)
	healthy := true
	probe := func(name string, timeout time.Duration, ping func(context.Context, time.Duration) error) {
		if err := ping(r.Context(), timeout); err != nil {
			checks[name] = err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	probe("db", orDefault(h.DBTimeout, 500*time.Millisecond), h.Checker.PingDB)
	probe("redis", orDefault(h.RedisTimeout, 300*time.Millisecond), h.Checker.PingRedis)

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(checks)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
