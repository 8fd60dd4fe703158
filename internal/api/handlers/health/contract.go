package health

import "context"

// Check проверка зависимости сервиса
type Check struct {
	Name     string
	Required bool // недоступность обязательной зависимости дает 503, остальных - degraded
	Ping     func(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
