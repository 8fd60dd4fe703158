package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных или отсутствующих входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrConflict возвращается, когда слот уже занят.
	// Конкретная причина и занявшая слот запись доступны через *ConflictError.
	ErrConflict = errors.New("appointments: slot conflict")

	// ErrIllegalTransition возвращается при недопустимой смене статуса
	// и при попытке изменить завершенную или отмененную запись
	ErrIllegalTransition = errors.New("appointments: illegal status transition")

	// ErrPreconditionFailed возвращается при удалении неотмененной записи
	ErrPreconditionFailed = errors.New("appointments: precondition failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)

// Измерения конфликта (метка метрики и поле ответа)
const (
	DimensionVehicle    = "vehicle"    // слот автомобиля клиента
	DimensionStaff      = "staff"      // слот механика
	DimensionStatus     = "status"     // запись не в ожидаемом статусе
	DimensionLock       = "lock"       // слот прямо сейчас бронирует другой запрос
	DimensionConcurrent = "concurrent" // транзакция откатилась из-за параллельной записи
)

// ConflictError конфликт слота. errors.Is(err, ErrConflict) == true.
type ConflictError struct {
	Dimension string
	Reason    string
	Existing  *domain.Appointment // может быть nil, если запись не удалось определить
}

func (e *ConflictError) Error() string {
	if e.Existing != nil {
		return fmt.Sprintf("%s: %s (%s, appointment id=%d)", ErrConflict, e.Reason, e.Dimension, e.Existing.ID)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrConflict, e.Reason, e.Dimension)
}

// Is позволяет сравнивать с ErrConflict через errors.Is
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
