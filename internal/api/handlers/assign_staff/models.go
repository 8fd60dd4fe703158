package assign_staff

import (
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

// AssignStaffRequest HTTP request model
type AssignStaffRequest struct {
	StaffID int64 `json:"staffId"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AssignStaffRequest) ToServiceRequest() *models.AssignStaffRequest {
	return &models.AssignStaffRequest{StaffID: r.StaffID}
}
