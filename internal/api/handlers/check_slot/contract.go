package check_slot

import (
	"context"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

type AppointmentService interface {
	CheckSlot(ctx context.Context, req *models.CheckSlotRequest) (*models.SlotCheckResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
