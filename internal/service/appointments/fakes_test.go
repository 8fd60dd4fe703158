package appointments

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// memoryRepo in-memory хранилище с теми же контрактами ошибок, что и Postgres репозиторий
type memoryRepo struct {
	mu     sync.Mutex
	items  map[int64]*domain.Appointment
	nextID int64

	createErr error
	updateErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[int64]*domain.Appointment), nextID: 1}
}

func (r *memoryRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}

	stored := *a
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.nextID++
	r.items[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	result := *a
	return &result, nil
}

func (r *memoryRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*domain.Appointment, 0)
	for _, id := range ids {
		if filter.Matches(r.items[id]) {
			a := *r.items[id]
			result = append(result, &a)
		}
	}
	return result, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return nil, r.updateErr
	}

	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	updated := applyPatch(a, patch)
	r.items[id] = updated

	result := *updated
	return &result, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok || a.Status != from {
		return nil, appointmentRepo.ErrStatusMismatch
	}
	a.Status = to

	result := *a
	return &result, nil
}

func (r *memoryRepo) AssignStaff(_ context.Context, id int64, staffID int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok || a.Status != domain.StatusWaiting {
		return nil, appointmentRepo.ErrStatusMismatch
	}
	a.AssignedStaffID = &staffID
	a.Status = domain.StatusAccepted

	result := *a
	return &result, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) GetStatistics(_ context.Context, today time.Time) (*domain.AppointmentStatistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.AppointmentStatistics{}
	for _, a := range r.items {
		stats.Total++
		switch a.Status {
		case domain.StatusWaiting:
			stats.Waiting++
		case domain.StatusAccepted:
			stats.Accepted++
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}
		if a.Date.Equal(today) {
			stats.Today++
		}
	}
	return stats, nil
}

// put кладет запись напрямую, минуя сервис
func (r *memoryRepo) put(a domain.Appointment) *domain.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.nextID
	r.nextID++
	r.items[a.ID] = &a
	return &a
}

// inlineTx выполняет fn без транзакции
type inlineTx struct {
	serializable int
}

func (t *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (t *inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	t.serializable++
	return fn(ctx)
}

func (t *inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeLocker запоминает ключи и может имитировать занятый слот или недоступный Redis
type fakeLocker struct {
	keys [][]string
	busy bool
	down bool
}

func (l *fakeLocker) WithLock(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	l.keys = append(l.keys, keys)
	if l.down {
		return fmt.Errorf("%w: connection refused", lock.ErrAcquire)
	}
	if l.busy {
		return fmt.Errorf("%w: %s", lock.ErrLockNotAcquired, keys[0])
	}
	return fn(ctx)
}

type recordingPublisher struct {
	events []eventbus.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event eventbus.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	result := make([]string, 0, len(p.events))
	for _, e := range p.events {
		result = append(result, e.Type)
	}
	return result
}

type recordingMetrics struct {
	conflicts   []string
	transitions []string
}

func (m *recordingMetrics) RecordConflict(dimension string) {
	m.conflicts = append(m.conflicts, dimension)
}

func (m *recordingMetrics) RecordTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

type fixture struct {
	svc       *Service
	repo      *memoryRepo
	tx        *inlineTx
	locker    *fakeLocker
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

// 2025-06-09 10:00 UTC: дата 2025-06-10 в тестах - завтра
var testNow = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:      newMemoryRepo(),
		tx:        &inlineTx{},
		locker:    &fakeLocker{},
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}

	checker := availability.NewChecker(f.repo, nopLogger{})
	f.svc = NewService(f.repo, checker, f.tx, f.locker, f.publisher, f.metrics, time.UTC, nopLogger{})
	f.svc.timeProvider = fixedTime{now: testNow}

	return f
}
