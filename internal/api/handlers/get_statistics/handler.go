package get_statistics

import (
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/statistics
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStatistics(r.Context())
	if err != nil {
		h.logger.Error("GET /appointments/statistics - Failed to get statistics: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/statistics - Statistics retrieved successfully: total=%d, today=%d",
		stats.Total, stats.Today)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
