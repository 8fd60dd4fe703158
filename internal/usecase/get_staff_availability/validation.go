package get_staff_availability

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateSchedule проверяет, что расписание мастерской согласовано
func validateSchedule(s Schedule) error {
	if err := s.OpenTime.Validate(); err != nil {
		return fmt.Errorf("invalid open time: %w", err)
	}
	if err := s.CloseTime.Validate(); err != nil {
		return fmt.Errorf("invalid close time: %w", err)
	}
	if !s.OpenTime.IsBefore(s.CloseTime) {
		return fmt.Errorf("open time %s is not before close time %s", s.OpenTime, s.CloseTime)
	}
	if s.SlotMinutes <= 0 {
		return fmt.Errorf("slot length must be positive, got %d", s.SlotMinutes)
	}
	return nil
}
