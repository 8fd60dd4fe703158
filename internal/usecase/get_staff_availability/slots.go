package get_staff_availability

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// generateTimeSlots генерирует слоты рабочего дня с фиксированным шагом.
// Для прошедшей даты слотов нет, для сегодняшней отбрасываются слоты раньше now + minNoticeMinutes.
// requestDate и now должны быть в часовом поясе мастерской.
func generateTimeSlots(schedule Schedule, requestDate time.Time, now time.Time) ([]types.TimeString, error) {
	today := types.DateOnly(now)
	if types.DateOnly(requestDate).Before(today) {
		return []types.TimeString{}, nil
	}

	// Шаг 1: все слоты от открытия до закрытия
	allSlots := make([]types.TimeString, 0)
	currentSlot := schedule.OpenTime

	for currentSlot.IsBefore(schedule.CloseTime) {
		slotEnd, err := currentSlot.AddMinutes(schedule.SlotMinutes)
		if errors.Is(err, types.ErrTimeOverflow) {
			// слот уходит за полночь
			break
		}
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(schedule.CloseTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot = slotEnd
	}

	// Шаг 2: другой день - все слоты
	if !types.SameDay(requestDate, now) {
		return allSlots, nil
	}

	// Шаг 3: сегодня - только слоты, до которых осталось не меньше minNoticeMinutes
	minAllowedTime, err := types.NewTimeString(now).AddMinutes(schedule.MinNoticeMinutes)
	if err != nil {
		// уведомление переходит через полночь, на сегодня слотов нет
		return []types.TimeString{}, nil
	}

	availableSlots := make([]types.TimeString, 0, len(allSlots))
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// markOccupied сопоставляет слотам записи механика.
// Запись занимает слот, если начинается ровно в его время (как в проверке конфликта и уникальном индексе).
// Отмененные записи механика не занимают.
func markOccupied(slots []types.TimeString, slotMinutes int, appointments []*domain.Appointment) []domain.StaffSlot {
	result := make([]domain.StaffSlot, len(slots))

	for i, slotStart := range slots {
		result[i] = domain.StaffSlot{
			StartTime:       slotStart,
			DurationMinutes: slotMinutes,
		}

		if a := findAtSlot(slotStart, appointments); a != nil {
			id := a.ID
			result[i].AppointmentID = &id
		}
	}

	return result
}

// findAtSlot возвращает первую запись, занимающую слот механика с указанным началом
func findAtSlot(slotStart types.TimeString, appointments []*domain.Appointment) *domain.Appointment {
	for _, a := range appointments {
		if a.Status.OccupiesStaffSlot() && a.Time.Equal(slotStart) {
			return a
		}
	}
	return nil
}
