package get_staff_availability

import (
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// Schedule рабочее расписание мастерской
type Schedule struct {
	OpenTime         types.TimeString
	CloseTime        types.TimeString
	SlotMinutes      int
	MinNoticeMinutes int            // минимальное время до начала слота на сегодня
	Location         *time.Location // часовой пояс мастерской
}

// Request модель запроса расписания механика
type Request struct {
	StaffID int64     // ID механика
	Date    time.Time // Дата (без времени)
}

// Response модель ответа с расписанием механика
type Response struct {
	StaffID int64              // ID механика
	Date    time.Time          // Дата, на которую запрашивалось расписание
	Slots   []domain.StaffSlot // Слоты рабочего дня, свободные и занятые
}

// FreeCount возвращает количество свободных слотов
func (r *Response) FreeCount() int {
	count := 0
	for i := range r.Slots {
		if r.Slots[i].IsFree() {
			count++
		}
	}
	return count
}
