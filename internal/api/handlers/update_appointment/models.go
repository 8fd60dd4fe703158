package update_appointment

import (
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

// UpdateAppointmentRequest HTTP request model, все поля опциональны
type UpdateAppointmentRequest struct {
	VehicleClientID *int64  `json:"vehicleClientId,omitempty"`
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	Description     *string `json:"description,omitempty"`
	AssignedStaffID *int64  `json:"assignedStaffId,omitempty"` // 0 снимает механика
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAppointmentRequest) ToServiceRequest() *models.UpdateAppointmentRequest {
	return &models.UpdateAppointmentRequest{
		VehicleClientID: r.VehicleClientID,
		Date:            r.Date,
		Time:            r.Time,
		Description:     r.Description,
		AssignedStaffID: r.AssignedStaffID,
	}
}
