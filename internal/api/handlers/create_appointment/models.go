package create_appointment

import (
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	VehicleClientID int64  `json:"vehicleClientId"`
	Date            string `json:"date"` // "2025-06-10"
	Time            string `json:"time"` // "09:00"
	Description     string `json:"description"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса.
// Формат даты и времени проверяет сервис.
func (r *CreateAppointmentRequest) ToServiceRequest() *models.CreateAppointmentRequest {
	return &models.CreateAppointmentRequest{
		VehicleClientID: r.VehicleClientID,
		Date:            r.Date,
		Time:            r.Time,
		Description:     r.Description,
	}
}
