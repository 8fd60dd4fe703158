package get_statistics

import (
	"context"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetStatistics(ctx context.Context) (*models.StatisticsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
