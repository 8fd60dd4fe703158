package domain

// Business validation constants
const (
	MaxDescriptionLength = 1000
	DefaultListLimit     = 50
	MaxListLimit         = 500
)

// DateFormat wire format of calendar dates
const DateFormat = "2006-01-02" // YYYY-MM-DD

// Default workshop schedule
const (
	DefaultOpenTime         = "08:00"
	DefaultCloseTime        = "18:00"
	DefaultSlotMinutes      = 60
	DefaultMinNoticeMinutes = 0
)

// VehicleSlotStatuses statuses that occupy a vehicle-client slot
var VehicleSlotStatuses = []AppointmentStatus{
	StatusWaiting,
	StatusAccepted,
}

// StaffSlotFreeStatuses statuses that do NOT occupy a staff slot
var StaffSlotFreeStatuses = []AppointmentStatus{
	StatusCancelled,
}

// AllStatuses every known status in lifecycle order
var AllStatuses = []AppointmentStatus{
	StatusWaiting,
	StatusAccepted,
	StatusCompleted,
	StatusCancelled,
}
