package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные записи: проверьте автомобиль, дату (YYYY-MM-DD), время (HH:MM) и описание"
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

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: vehicle_client=%d, error=%v", req.VehicleClientID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, appointments.ErrConflict):
			h.logger.Warn("POST /appointments - Slot conflict: vehicle_client=%d, date=%s, time=%s",
				req.VehicleClientID, req.Date, req.Time)
			handlers.RespondAppointmentConflict(w, err)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: vehicle_client=%d, error=%v",
				req.VehicleClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, vehicle_client=%d",
		result.ID, result.VehicleClientID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
