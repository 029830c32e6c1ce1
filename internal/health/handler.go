// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

type Checker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db       Checker
	redis    Checker
	app      string
	version  string
	ready    atomic.Bool
	shutdown atomic.Bool
}

// NewHandler starts in the not-ready state; callers flip it with SetReady
// once bootstrap finishes.
func NewHandler(db, redis Checker, app, version string) *Handler {
	return &Handler{
		db:      db,
		redis:   redis,
		app:     app,
		version: version,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status:  "shutting_down",
			App:     h.app,
			Version: h.version,
		})
		return
	}

	h.writeStatus(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		App:     h.app,
		Version: h.version,
	})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status:  "shutting_down",
			App:     h.app,
			Version: h.version,
		})
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status:  "not_ready",
			App:     h.app,
			Version: h.version,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runChecks(ctx)

	status := "ok"
	statusCode := http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	h.writeStatus(w, statusCode, ReadinessResponse{
		Status:  status,
		App:     h.app,
		Version: h.version,
		Checks:  checks,
	})
}

// runChecks pings the database and Redis concurrently under the shared
// deadline.
func (h *Handler) runChecks(ctx context.Context) map[string]Check {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		checks = make(map[string]Check, 2)
	)

	run := func(name string, checker Checker) {
		defer wg.Done()

		check := Check{Healthy: true}
		if checker == nil {
			check.Healthy = false
			check.Message = "checker not configured"
		} else {
			start := time.Now()
			if err := checker.Ping(ctx); err != nil {
				check.Healthy = false
				check.Message = "ping failed"
			}
			check.Latency = time.Since(start).String()
		}

		mu.Lock()
		checks[name] = check
		mu.Unlock()
	}

	wg.Add(2)
	go run("database", h.db)
	go run("redis", h.redis)
	wg.Wait()

	return checks
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status  string `json:"status"`
	App     string `json:"app,omitempty"`
	Version string `json:"version,omitempty"`
}

type ReadinessResponse struct {
	Status  string           `json:"status"`
	App     string           `json:"app,omitempty"`
	Version string           `json:"version,omitempty"`
	Checks  map[string]Check `json:"checks"`
}

type Check struct {
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
