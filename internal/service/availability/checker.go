package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// Checker проверяет занятость слотов автомобиля клиента и механика.
// Побочных эффектов нет; внутри транзакции найденные строки блокируются репозиторием.
type Checker struct {
	repo   AppointmentRepository
	logger Logger
}

// NewChecker создает новый экземпляр проверки слотов
func NewChecker(repo AppointmentRepository, logger Logger) *Checker {
	return &Checker{
		repo:   repo,
		logger: logger,
	}
}

// ParseSlot разбирает дату (YYYY-MM-DD) и время (HH:MM) слота
func ParseSlot(date, t string) (time.Time, types.TimeString, error) {
	d, err := types.ParseDate(date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ts, err := types.NewTimeStringFromString(t)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return d, ts, nil
}

// CheckVehicleSlot проверяет, занят ли слот автомобиля клиента активной записью (waiting или accepted).
// excludeID исключает саму запись при обновлении.
func (c *Checker) CheckVehicleSlot(
	ctx context.Context,
	vehicleClientID int64,
	date time.Time,
	at types.TimeString,
	excludeID *int64,
) (*SlotResult, error) {
	if vehicleClientID <= 0 {
		return nil, fmt.Errorf("%w: vehicleClientId must be positive", ErrInvalidInput)
	}
	if err := validateSlot(date, at); err != nil {
		return nil, err
	}

	day := types.DateOnly(date)
	filter := domain.AppointmentFilter{
		VehicleClientID: &vehicleClientID,
		StartDate:       &day,
		EndDate:         &day,
		Time:            &at,
		Statuses:        domain.VehicleSlotStatuses,
		ExcludeID:       excludeID,
	}

	return c.lookup(ctx, "CheckVehicleSlot", filter)
}

// CheckStaffSlot проверяет, занят ли механик в слоте.
// Занятость механика считается по любой неотмененной записи, включая завершенные.
func (c *Checker) CheckStaffSlot(
	ctx context.Context,
	staffID int64,
	date time.Time,
	at types.TimeString,
	excludeID *int64,
) (*SlotResult, error) {
	if staffID <= 0 {
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}
	if err := validateSlot(date, at); err != nil {
		return nil, err
	}

	day := types.DateOnly(date)
	filter := domain.AppointmentFilter{
		StaffID:         &staffID,
		StartDate:       &day,
		EndDate:         &day,
		Time:            &at,
		ExcludeStatuses: domain.StaffSlotFreeStatuses,
		ExcludeID:       excludeID,
	}

	return c.lookup(ctx, "CheckStaffSlot", filter)
}

func (c *Checker) lookup(ctx context.Context, op string, filter domain.AppointmentFilter) (*SlotResult, error) {
	appointments, err := c.repo.List(ctx, filter)
	if err != nil {
		c.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if len(appointments) == 0 {
		return &SlotResult{}, nil
	}

	c.logger.Info("%s: slot %s %s occupied by appointment id=%d",
		op, types.FormatDate(*filter.StartDate), filter.Time.String(), appointments[0].ID)

	return &SlotResult{
		Occupied:    true,
		Conflicting: appointments[0],
	}, nil
}

func validateSlot(date time.Time, at types.TimeString) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := at.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
