package eventbus

import "time"

// DefaultExchange topic exchange для событий записей
const DefaultExchange = "workshop.appointments"

// Типы событий (routing key)
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentUpdated       = "appointment.updated"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentStaffAssigned = "appointment.staff_assigned"
	EventAppointmentDeleted       = "appointment.deleted"
)

// Event событие жизненного цикла записи
type Event struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	AppointmentID   int64     `json:"appointmentId"`
	VehicleClientID int64     `json:"vehicleClientId"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previousStatus,omitempty"`
	AssignedStaffID *int64    `json:"assignedStaffId,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}
