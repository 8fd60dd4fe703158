package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Update(ctx context.Context, id int64, patch domain.AppointmentPatch) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error)
	AssignStaff(ctx context.Context, id int64, staffID int64) (*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
	GetStatistics(ctx context.Context, today time.Time) (*domain.AppointmentStatistics, error)
}

// SlotChecker интерфейс проверки занятости слотов
type SlotChecker interface {
	CheckVehicleSlot(ctx context.Context, vehicleClientID int64, date time.Time, at types.TimeString, excludeID *int64) (*availability.SlotResult, error)
	CheckStaffSlot(ctx context.Context, staffID int64, date time.Time, at types.TimeString, excludeID *int64) (*availability.SlotResult, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker интерфейс распределенной блокировки слотов
type Locker interface {
	WithLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий записей
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// MetricsRecorder интерфейс доменных метрик
type MetricsRecorder interface {
	RecordConflict(dimension string)
	RecordTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NoopMetrics используется, когда метрики выключены
type NoopMetrics struct{}

// RecordConflict ничего не делает
func (NoopMetrics) RecordConflict(string) {}

// RecordTransition ничего не делает
func (NoopMetrics) RecordTransition(string, string) {}
