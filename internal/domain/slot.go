package domain

import "github.com/m04kA/SMC-WorkshopService/pkg/types"

// StaffSlot represents one schedule position of a mechanic on a given day
type StaffSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	AppointmentID   *int64 // occupying appointment, nil when free
}

// IsFree returns true if no appointment occupies the slot
func (s *StaffSlot) IsFree() bool {
	return s.AppointmentID == nil
}
