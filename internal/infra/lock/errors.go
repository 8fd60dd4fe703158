package lock

import "errors"

var (
	// ErrLockNotAcquired возвращается, когда слот уже заблокирован другим запросом
	ErrLockNotAcquired = errors.New("lock: slot lock not acquired")

	// ErrAcquire возвращается при ошибке обращения к Redis во время захвата блокировки
	ErrAcquire = errors.New("lock: failed to acquire lock")
)
