package appointment

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Коды ошибок Postgres, которые имеют бизнес-смысл
const (
	pgUniqueViolation      pq.ErrorCode = "23505"
	pgCheckViolation       pq.ErrorCode = "23514"
	pgSerializationFailure pq.ErrorCode = "40001"
	pgDeadlockDetected     pq.ErrorCode = "40P01"
)

// Имена частичных уникальных индексов из migrations/001_create_appointments.sql
const (
	vehicleSlotIndex = "ux_appointments_vehicle_slot"
	staffSlotIndex   = "ux_appointments_staff_slot"
)

// translateError превращает ошибки драйвера в ошибки репозитория
func translateError(op string, err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}

	switch pqErr.Code {
	case pgUniqueViolation:
		switch pqErr.Constraint {
		case vehicleSlotIndex:
			return fmt.Errorf("%w: %s", ErrVehicleSlotOccupied, op)
		case staffSlotIndex:
			return fmt.Errorf("%w: %s", ErrStaffSlotOccupied, op)
		}
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %s: %s", ErrSerialization, op, pqErr.Message)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s: %s", ErrInvalidStatus, op, pqErr.Message)
	}

	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
