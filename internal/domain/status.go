package domain

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusWaiting   AppointmentStatus = "waiting"
	StatusAccepted  AppointmentStatus = "accepted"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// transitions is the full status lattice. Terminal statuses map to nothing.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusWaiting:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus converts a wire value into a known AppointmentStatus
func ParseStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	_, ok := transitions[status]
	return status, ok
}

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal returns true for Completed and Cancelled (and unknown statuses)
func (s AppointmentStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> target is in the lattice.
// Re-asserting the current status is never a legal transition.
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// OccupiesVehicleSlot returns true if an appointment in this status blocks its
// vehicle-client slot. Completed and cancelled appointments free the slot.
func (s AppointmentStatus) OccupiesVehicleSlot() bool {
	return s == StatusWaiting || s == StatusAccepted
}

// OccupiesStaffSlot returns true if an appointment in this status blocks its
// staff slot. Only cancellation frees a staff slot.
func (s AppointmentStatus) OccupiesStaffSlot() bool {
	return s.IsValid() && s != StatusCancelled
}

func (s AppointmentStatus) String() string {
	return string(s)
}
