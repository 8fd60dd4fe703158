package get_staff_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// UseCase use case для получения расписания механика на день
type UseCase struct {
	repo         AppointmentRepository
	schedule     Schedule
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(repo AppointmentRepository, schedule Schedule, logger Logger) (*UseCase, error) {
	if err := validateSchedule(schedule); err != nil {
		return nil, err
	}
	if schedule.Location == nil {
		schedule.Location = time.UTC
	}

	return &UseCase{
		repo:         repo,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}, nil
}

// Execute возвращает слоты рабочего дня механика с отметкой занятости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetStaffAvailability: staff=%d, date=%s", req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetStaffAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время мастерской
	now := uc.timeProvider.Now().In(uc.schedule.Location)
	date := types.DateOnly(req.Date)

	// 3. Генерируем слоты рабочего дня
	timeSlots, err := generateTimeSlots(uc.schedule, date, now)
	if err != nil {
		uc.logger.Error("GetStaffAvailability: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	// 4. Записи механика на дату (кроме отмененных)
	filter := domain.AppointmentFilter{
		StaffID:         &req.StaffID,
		StartDate:       &date,
		EndDate:         &date,
		ExcludeStatuses: domain.StaffSlotFreeStatuses,
	}

	appointments, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Error("GetStaffAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Отмечаем занятые слоты
	slots := markOccupied(timeSlots, uc.schedule.SlotMinutes, appointments)

	resp := &Response{
		StaffID: req.StaffID,
		Date:    date,
		Slots:   slots,
	}

	uc.logger.Info("GetStaffAvailability: staff=%d, date=%s, %d/%d slots free",
		req.StaffID, date.Format(domain.DateFormat), resp.FreeCount(), len(slots))

	return resp, nil
}
