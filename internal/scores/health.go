package scores

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tomz197/bugstroids/internal/response"
)

type HealthResponse struct {
	Status    string `json:"status" msgpack:"status"`
	Timestamp string `json:"timestamp" msgpack:"timestamp"`
	Store     string `json:"store" msgpack:"store"`
}

// pinger is implemented by stores backed by a database connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and, for database stores, connectivity.
type HealthHandler struct {
	store  Store
	logger *slog.Logger
}

func NewHealthHandler(store Store, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger.With("handler", "health")}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	storeStatus := "memory"
	status := http.StatusOK
	if p, ok := h.store.(pinger); ok {
		storeStatus = "connected"
		if err := p.Ping(r.Context()); err != nil {
			h.logger.Warn("Store ping failed", "error", err)
			storeStatus = "disconnected"
			status = http.StatusServiceUnavailable
		}
	}

	response.Success(w, r, status, HealthResponse{
		Status:    http.StatusText(status),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
	})
}
