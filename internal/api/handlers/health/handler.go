package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
)

const checkTimeout = time.Second

type Handler struct {
	service string
	checks  []Check
	logger  Logger
}

func NewHandler(service string, checks []Check, logger Logger) *Handler {
	return &Handler{
		service: service,
		checks:  checks,
		logger:  logger,
	}
}

// Liveness GET /health/live
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, LivenessResponse{Status: StatusOK, Service: h.service})
}

// Readiness GET /health/ready
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := ReadinessResponse{
		Status:       StatusOK,
		Service:      h.service,
		Dependencies: make(map[string]string, len(h.checks)),
	}

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := check.Ping(ctx)
		cancel()

		if err == nil {
			resp.Dependencies[check.Name] = dependencyUp
			continue
		}

		resp.Dependencies[check.Name] = dependencyDown
		if check.Required {
			h.logger.Error("GET /health/ready - Required dependency %s is down: %v", check.Name, err)
			resp.Status = StatusError
		} else {
			h.logger.Warn("GET /health/ready - Dependency %s is down: %v", check.Name, err)
			if resp.Status == StatusOK {
				resp.Status = StatusDegraded
			}
		}
	}

	status := http.StatusOK
	if resp.Status == StatusError {
		status = http.StatusServiceUnavailable
	}
	handlers.RespondJSON(w, status, resp)
}
