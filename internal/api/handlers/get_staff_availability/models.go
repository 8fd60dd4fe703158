package get_staff_availability

import (
	getStaffAvailability "github.com/m04kA/SMC-WorkshopService/internal/usecase/get_staff_availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// StaffAvailabilityResponse HTTP response model
type StaffAvailabilityResponse struct {
	StaffID   int64       `json:"staffId"`
	Date      string      `json:"date"`
	FreeCount int         `json:"freeCount"`
	Slots     []StaffSlot `json:"slots"`
}

// StaffSlot модель слота механика
type StaffSlot struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Free            bool   `json:"free"`
	AppointmentID   *int64 `json:"appointmentId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getStaffAvailability.Response) *StaffAvailabilityResponse {
	slots := make([]StaffSlot, len(resp.Slots))
	for i := range resp.Slots {
		slot := resp.Slots[i]
		slots[i] = StaffSlot{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Free:            slot.IsFree(),
			AppointmentID:   slot.AppointmentID,
		}
	}

	return &StaffAvailabilityResponse{
		StaffID:   resp.StaffID,
		Date:      types.FormatDate(resp.Date),
		FreeCount: resp.FreeCount(),
		Slots:     slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(staffID int64, dateStr string) (*getStaffAvailability.Request, error) {
	date, err := types.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	return &getStaffAvailability.Request{
		StaffID: staffID,
		Date:    date,
	}, nil
}
