package availability

import "github.com/m04kA/SMC-WorkshopService/internal/domain"

// SlotResult результат проверки слота
type SlotResult struct {
	Occupied    bool
	Conflicting *domain.Appointment // первая найденная запись, занимающая слот
}

// Available возвращает true, если слот свободен
func (r *SlotResult) Available() bool {
	return !r.Occupied
}
