package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrVehicleSlotOccupied возвращается при нарушении уникального индекса слота автомобиля клиента
	ErrVehicleSlotOccupied = errors.New("appointment.repository: vehicle-client slot occupied")

	// ErrStaffSlotOccupied возвращается при нарушении уникального индекса слота механика
	ErrStaffSlotOccupied = errors.New("appointment.repository: staff slot occupied")

	// ErrSerialization возвращается, когда Postgres откатил сериализуемую транзакцию из-за конкурентной записи
	ErrSerialization = errors.New("appointment.repository: concurrent update, transaction aborted")

	// ErrStatusMismatch возвращается, когда условное обновление не нашло запись в ожидаемом статусе
	ErrStatusMismatch = errors.New("appointment.repository: appointment is not in the expected status")

	// ErrInvalidStatus возвращается при попытке сохранить недопустимый статус (нарушение CHECK)
	ErrInvalidStatus = errors.New("appointment.repository: invalid appointment status")

	// ErrNothingToUpdate возвращается при пустом патче
	ErrNothingToUpdate = errors.New("appointment.repository: nothing to update")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
