package check_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
	msgInvalidSlot   = "укажите vehicleClientId или staffId, дату (YYYY-MM-DD) и время (HH:MM)"
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

// Handle GET /api/v1/appointments/slot-check
// Query params: date, time (обязательные), vehicleClientId и/или staffId, excludeId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /appointments/slot-check - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.CheckSlot(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments/slot-check - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		default:
			h.logger.Error("GET /appointments/slot-check - Failed to check slot: date=%s, time=%s, error=%v",
				serviceReq.Date, serviceReq.Time, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/slot-check - Slot checked: date=%s, time=%s", result.Date, result.Time)
	handlers.RespondJSON(w, http.StatusOK, result)
}
