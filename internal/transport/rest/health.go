package rest

import (
	"context"
	"net/http"
	"time"
)

const probeTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

type isolationChecker interface {
	CheckIsolation(ctx context.Context) error
}

// HealthHandler serves the probe endpoints. Readiness requires both a
// reachable database and enforced tenant isolation: an instance connected
// as a role that bypasses row level security must not take traffic.
type HealthHandler struct {
	db        dbPinger
	isolation isolationChecker
	version   string
}

// NewHealthHandler creates a HealthHandler. isolation may be nil, in which
// case only the database ping is checked.
func NewHealthHandler(db dbPinger, isolation isolationChecker, version string) *HealthHandler {
	return &HealthHandler{db: db, isolation: isolation, version: version}
}

// HealthResponse is the JSON body of every probe.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// ComponentStatus is the result of one check.
type ComponentStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live always answers 200 while the process serves HTTP.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}

// Ready answers 200 when all checks pass and 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	components := h.check(r.Context())
	writeJSON(w, statusCode(components), HealthResponse{
		Status:    overall(components),
		Timestamp: time.Now().UTC(),
	})
}

// Health is Ready with per-component detail and the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := h.check(r.Context())
	writeJSON(w, statusCode(components), HealthResponse{
		Status:     overall(components),
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now().UTC(),
	})
}

func (h *HealthHandler) check(ctx context.Context) map[string]ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	components := map[string]ComponentStatus{
		"database": timed(func() error { return h.db.Ping(ctx) }),
	}
	// Isolation can only be checked on a live connection.
	if h.isolation != nil && components["database"].Status == "ok" {
		components["tenant_isolation"] = timed(func() error { return h.isolation.CheckIsolation(ctx) })
	}
	return components
}

func timed(fn func() error) ComponentStatus {
	start := time.Now()
	if err := fn(); err != nil {
		return ComponentStatus{Status: "down", Error: err.Error()}
	}
	return ComponentStatus{Status: "ok", Latency: time.Since(start).String()}
}

func overall(components map[string]ComponentStatus) string {
	for _, c := range components {
		if c.Status != "ok" {
			return "down"
		}
	}
	return "ok"
}

func statusCode(components map[string]ComponentStatus) int {
	if overall(components) == "ok" {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
