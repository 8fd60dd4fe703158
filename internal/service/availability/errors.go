package availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректном идентификаторе, дате или времени слота
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при ошибке чтения записей
	ErrInternal = errors.New("availability: internal error")
)
