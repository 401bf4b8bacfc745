package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthChecker provides health check endpoints for the service's dependencies
type HealthChecker struct {
	db    *sql.DB
	redis *redis.Client
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(db *sql.DB, redisClient *redis.Client) *HealthChecker {
	return &HealthChecker{
		db:    db,
		redis: redisClient,
	}
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Liveness is a simple liveness probe; it returns 200 whenever the process runs
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness checks all dependencies and reports per-dependency status
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deps := map[string]DependencyStatus{}
	healthy := true

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = DependencyStatus{Status: StatusUnhealthy, Message: err.Error()}
			healthy = false
		} else {
			deps["redis"] = DependencyStatus{Status: StatusHealthy}
		}
	}

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			deps["database"] = DependencyStatus{Status: StatusUnhealthy, Message: err.Error()}
			healthy = false
		} else {
			deps["database"] = DependencyStatus{Status: StatusHealthy}
		}
	}

	status := StatusHealthy
	code := http.StatusOK
	if !healthy {
		status = StatusUnhealthy
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       status,
		"timestamp":    time.Now(),
		"dependencies": deps,
	})
}
