package appointments

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// validateCreateRequest проверяет обязательные поля и форматы даты и времени
func validateCreateRequest(req *models.CreateAppointmentRequest) (time.Time, types.TimeString, error) {
	if req == nil {
		return time.Time{}, "", fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if req.VehicleClientID <= 0 {
		return time.Time{}, "", fmt.Errorf("%w: vehicleClientId must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Date) == "" {
		return time.Time{}, "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Time) == "" {
		return time.Time{}, "", fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	if err := validateDescription(req.Description); err != nil {
		return time.Time{}, "", err
	}

	date, err := types.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	at, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return date, at, nil
}

// validateNotPast запрещает создание записей на прошедшие дни
func validateNotPast(date, today time.Time) error {
	if date.Before(today) {
		return fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, types.FormatDate(date))
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	return nil
}

// toDomainPatch проверяет и конвертирует частичное обновление
func toDomainPatch(req *models.UpdateAppointmentRequest) (domain.AppointmentPatch, error) {
	var patch domain.AppointmentPatch
	if req == nil {
		return patch, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.VehicleClientID != nil {
		if *req.VehicleClientID <= 0 {
			return patch, fmt.Errorf("%w: vehicleClientId must be positive", ErrInvalidInput)
		}
		patch.VehicleClientID = req.VehicleClientID
	}

	if req.Date != nil {
		date, err := types.ParseDate(*req.Date)
		if err != nil {
			return patch, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.Date = &date
	}

	if req.Time != nil {
		at, err := types.NewTimeStringFromString(*req.Time)
		if err != nil {
			return patch, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.Time = &at
	}

	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return patch, err
		}
		patch.Description = req.Description
	}

	if req.AssignedStaffID != nil {
		switch {
		case *req.AssignedStaffID < 0:
			return patch, fmt.Errorf("%w: assignedStaffId must not be negative", ErrInvalidInput)
		case *req.AssignedStaffID == 0:
			patch.ClearAssignedStaff = true
		default:
			patch.AssignedStaffID = req.AssignedStaffID
		}
	}

	if patch.IsEmpty() {
		return patch, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	return patch, nil
}

// parseStatus разбирает статус из запроса (регистр не важен)
func parseStatus(s string) (domain.AppointmentStatus, error) {
	status, ok := domain.ParseStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return status, nil
}

// toDomainFilter проверяет и конвертирует фильтр списка
func toDomainFilter(req *models.ListAppointmentsRequest) (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		Limit: domain.DefaultListLimit,
	}
	if req == nil {
		return filter, nil
	}

	if req.VehicleClientID != nil {
		if *req.VehicleClientID <= 0 {
			return filter, fmt.Errorf("%w: vehicleClientId must be positive", ErrInvalidInput)
		}
		filter.VehicleClientID = req.VehicleClientID
	}
	if req.StaffID != nil {
		if *req.StaffID <= 0 {
			return filter, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
		}
		filter.StaffID = req.StaffID
	}

	if req.Date != nil {
		if req.StartDate != nil || req.EndDate != nil {
			return filter, fmt.Errorf("%w: date cannot be combined with startDate/endDate", ErrInvalidInput)
		}
		date, err := types.ParseDate(*req.Date)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.StartDate = &date
		filter.EndDate = &date
	}
	if req.StartDate != nil {
		start, err := types.ParseDate(*req.StartDate)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := types.ParseDate(*req.EndDate)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	if req.Limit < 0 || req.Offset < 0 {
		return filter, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	if req.Limit > domain.MaxListLimit {
		return filter, fmt.Errorf("%w: limit must not exceed %d", ErrInvalidInput, domain.MaxListLimit)
	}
	if req.Limit > 0 {
		filter.Limit = uint64(req.Limit)
	}
	filter.Offset = uint64(req.Offset)

	return filter, nil
}
