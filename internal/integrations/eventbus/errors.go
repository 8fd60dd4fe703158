package eventbus

import "errors"

var (
	// ErrNotConnected возвращается, когда канал к брокеру закрыт
	ErrNotConnected = errors.New("eventbus: not connected")

	// ErrMarshal возвращается при ошибке сериализации события
	ErrMarshal = errors.New("eventbus: failed to marshal event")

	// ErrPublish возвращается при ошибке публикации в брокер
	ErrPublish = errors.New("eventbus: failed to publish event")
)
