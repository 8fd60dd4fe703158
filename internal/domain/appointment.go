package domain

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// Appointment represents a workshop appointment for a vehicle-client pairing
type Appointment struct {
	ID              int64
	VehicleClientID int64 // vehicle ascribed to a specific client
	Date            time.Time
	Time            types.TimeString
	Description     string
	AssignedStaffID *int64 // mechanic; nil until assignment
	Status          AppointmentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its vehicle-client slot
func (a *Appointment) IsActive() bool {
	return a.Status.OccupiesVehicleSlot()
}

// IsTerminal returns true if no further changes are permitted
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// CanBeDeleted returns true if the appointment may be physically removed
func (a *Appointment) CanBeDeleted() bool {
	return a.Status == StatusCancelled
}

// CanAssignStaff returns true if a mechanic may be assigned right now
func (a *Appointment) CanAssignStaff() bool {
	return a.Status == StatusWaiting
}

// HasStaff returns true if a mechanic is assigned
func (a *Appointment) HasStaff() bool {
	return a.AssignedStaffID != nil && *a.AssignedStaffID > 0
}

// SameSlot returns true if both appointments are on the same date and time
func (a *Appointment) SameSlot(date time.Time, t types.TimeString) bool {
	return types.SameDay(a.Date, date) && a.Time.Equal(t)
}

// AppointmentPatch is a partial update. Nil fields are left untouched.
type AppointmentPatch struct {
	VehicleClientID    *int64
	Date               *time.Time
	Time               *types.TimeString
	Description        *string
	AssignedStaffID    *int64
	ClearAssignedStaff bool // sets assigned_staff_id to NULL; wins over AssignedStaffID
}

// IsEmpty returns true if the patch changes nothing
func (p AppointmentPatch) IsEmpty() bool {
	return p.VehicleClientID == nil &&
		p.Date == nil &&
		p.Time == nil &&
		p.Description == nil &&
		p.AssignedStaffID == nil &&
		!p.ClearAssignedStaff
}

// AppointmentFilter filter for listing appointments. Every field is optional.
type AppointmentFilter struct {
	VehicleClientID *int64
	StaffID         *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Time            *types.TimeString
	Statuses        []AppointmentStatus // include only these
	ExcludeStatuses []AppointmentStatus // drop these
	ExcludeID       *int64              // skip the appointment being updated
	Limit           uint64              // 0 = no limit
	Offset          uint64
}

// IsSlotLookup returns true if the filter pins a single date and time.
// Such lookups lock the returned rows when run inside a transaction.
func (f AppointmentFilter) IsSlotLookup() bool {
	return f.Time != nil &&
		f.StartDate != nil && f.EndDate != nil &&
		f.StartDate.Equal(*f.EndDate)
}

// AppointmentStatistics aggregate counters for the dashboard
type AppointmentStatistics struct {
	Total     int64
	Waiting   int64
	Accepted  int64
	Completed int64
	Cancelled int64
	Today     int64 // appointments scheduled for the current day, any status
}

// Matches reports whether a satisfies every condition of the filter.
// Limit and Offset are ignored.
func (f AppointmentFilter) Matches(a *Appointment) bool {
	if f.VehicleClientID != nil && a.VehicleClientID != *f.VehicleClientID {
		return false
	}
	if f.StaffID != nil && (a.AssignedStaffID == nil || *a.AssignedStaffID != *f.StaffID) {
		return false
	}
	if f.StartDate != nil && a.Date.Before(types.DateOnly(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && a.Date.After(types.DateOnly(*f.EndDate)) {
		return false
	}
	if f.Time != nil && !a.Time.Equal(*f.Time) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
		return false
	}
	if containsStatus(f.ExcludeStatuses, a.Status) {
		return false
	}
	if f.ExcludeID != nil && a.ID == *f.ExcludeID {
		return false
	}
	return true
}

func containsStatus(list []AppointmentStatus, s AppointmentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
