package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

const (
	msgVehicleSlotOccupied = "у автомобиля уже есть запись на это время"
	msgStaffSlotOccupied   = "механик уже занят в это время"
	msgWrongStatus         = "запись не ожидает назначения механика"
	msgSlotLocked          = "слот прямо сейчас бронирует другой запрос, повторите попытку"
	msgConcurrentUpdate    = "запись изменена параллельным запросом, повторите попытку"
	msgConflict            = "конфликт записи"
)

// RespondAppointmentConflict отвечает 409 по ошибке сервиса записей.
// Сообщение выбирается по измерению конфликта, занявшая слот запись отдается в теле.
func RespondAppointmentConflict(w http.ResponseWriter, err error) {
	var conflictErr *appointments.ConflictError
	if !errors.As(err, &conflictErr) {
		RespondConflict(w, msgConflict, "", nil)
		return
	}

	var conflicting interface{}
	if conflictErr.Existing != nil {
		conflicting = models.FromDomainAppointment(conflictErr.Existing)
	}

	RespondConflict(w, conflictMessage(conflictErr.Dimension), conflictErr.Dimension, conflicting)
}

func conflictMessage(dimension string) string {
	switch dimension {
	case appointments.DimensionVehicle:
		return msgVehicleSlotOccupied
	case appointments.DimensionStaff:
		return msgStaffSlotOccupied
	case appointments.DimensionStatus:
		return msgWrongStatus
	case appointments.DimensionLock:
		return msgSlotLocked
	case appointments.DimensionConcurrent:
		return msgConcurrentUpdate
	default:
		return msgConflict
	}
}
