package assign_staff

import (
	"context"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

type AppointmentService interface {
	AssignStaff(ctx context.Context, id int64, req *models.AssignStaffRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
