package models

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// Request модели

// CreateAppointmentRequest запрос на создание записи
type CreateAppointmentRequest struct {
	VehicleClientID int64  `json:"vehicleClientId"`
	Date            string `json:"date"` // "2025-06-10"
	Time            string `json:"time"` // "09:00"
	Description     string `json:"description"`
}

// UpdateAppointmentRequest частичное обновление записи; отсутствующие поля не меняются.
// assignedStaffId = 0 снимает механика.
type UpdateAppointmentRequest struct {
	VehicleClientID *int64  `json:"vehicleClientId,omitempty"`
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	Description     *string `json:"description,omitempty"`
	AssignedStaffID *int64  `json:"assignedStaffId,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignStaffRequest запрос на назначение механика
type AssignStaffRequest struct {
	StaffID int64 `json:"staffId"`
}

// ListAppointmentsRequest фильтр списка записей
type ListAppointmentsRequest struct {
	VehicleClientID *int64
	StaffID         *int64
	Date            *string // одна дата; взаимоисключается с периодом
	StartDate       *string
	EndDate         *string
	Status          *string
	Limit           int
	Offset          int
}

// CheckSlotRequest запрос проверки слота
type CheckSlotRequest struct {
	VehicleClientID *int64
	StaffID         *int64
	Date            string
	Time            string
	ExcludeID       *int64
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	VehicleClientID int64     `json:"vehicleClientId"`
	Date            string    `json:"date"` // "2025-06-10"
	Time            string    `json:"time"` // "09:00"
	Description     string    `json:"description"`
	AssignedStaffID *int64    `json:"assignedStaffId"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Count        int                   `json:"count"`
}

// StatisticsResponse агрегированные счетчики для дашборда
type StatisticsResponse struct {
	Total     int64 `json:"total"`
	Waiting   int64 `json:"waiting"`
	Accepted  int64 `json:"accepted"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Today     int64 `json:"today"`
}

// SlotStatus занятость слота по одному измерению
type SlotStatus struct {
	Occupied               bool                 `json:"occupied"`
	ConflictingAppointment *AppointmentResponse `json:"conflictingAppointment,omitempty"`
}

// SlotCheckResponse результат проверки слота
type SlotCheckResponse struct {
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	VehicleSlot *SlotStatus `json:"vehicleSlot,omitempty"`
	StaffSlot   *SlotStatus `json:"staffSlot,omitempty"`
}

// Конвертеры

// FromDomainAppointment конвертирует доменную модель в ответ
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	var staffID *int64
	if a.AssignedStaffID != nil {
		staffID = ptr.Ptr(*a.AssignedStaffID)
	}

	return &AppointmentResponse{
		ID:              a.ID,
		VehicleClientID: a.VehicleClientID,
		Date:            types.FormatDate(a.Date),
		Time:            a.Time.String(),
		Description:     a.Description,
		AssignedStaffID: staffID,
		Status:          a.Status.String(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список записей
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	appointments := make([]AppointmentResponse, 0, len(list))
	for _, a := range list {
		appointments = append(appointments, *FromDomainAppointment(a))
	}

	return &AppointmentListResponse{
		Appointments: appointments,
		Count:        len(appointments),
	}
}

// FromDomainStatistics конвертирует статистику
func FromDomainStatistics(s *domain.AppointmentStatistics) *StatisticsResponse {
	return &StatisticsResponse{
		Total:     s.Total,
		Waiting:   s.Waiting,
		Accepted:  s.Accepted,
		Completed: s.Completed,
		Cancelled: s.Cancelled,
		Today:     s.Today,
	}
}
