package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-WorkshopService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-WorkshopService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
	"github.com/m04kA/SMC-WorkshopService/internal/service/availability"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

// Service сервис записей на обслуживание.
// Единственная точка входа для хендлеров: проверяет слоты и переходы статусов перед записью в хранилище.
type Service struct {
	repo         AppointmentRepository
	checker      SlotChecker
	txManager    TransactionManager
	locker       Locker
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей.
// location - часовой пояс мастерской, в нем считается "сегодня".
func NewService(
	repo AppointmentRepository,
	checker SlotChecker,
	txManager TransactionManager,
	locker Locker,
	publisher EventPublisher,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:         repo,
		checker:      checker,
		txManager:    txManager,
		locker:       locker,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// Create создает запись в статусе waiting.
// Проверка слота и вставка выполняются в одной сериализуемой транзакции под блокировкой слота.
func (s *Service) Create(ctx context.Context, req *models.CreateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Create: vehicle_client=%d, date=%s, time=%s", req.VehicleClientID, req.Date, req.Time)

	date, at, err := validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if err := validateNotPast(date, s.today()); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	keys := []string{lock.VehicleSlotKey(req.VehicleClientID, types.FormatDate(date), at.String())}

	var created *domain.Appointment
	err = s.withSlotLock(ctx, "Create", keys, func(lockCtx context.Context) error {
		return s.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			res, err := s.checker.CheckVehicleSlot(txCtx, req.VehicleClientID, date, at, nil)
			if err != nil {
				return err
			}
			if res.Occupied {
				return s.conflict(DimensionVehicle, "vehicle-client slot is already booked", res.Conflicting)
			}

			created, err = s.repo.Create(txCtx, &domain.Appointment{
				VehicleClientID: req.VehicleClientID,
				Date:            date,
				Time:            at,
				Description:     req.Description,
				Status:          domain.StatusWaiting,
			})
			return err
		})
	})
	if err != nil {
		err = s.translate("Create", err)
		s.attachVehicleConflict(ctx, err, req.VehicleClientID, date, at, nil)
		return nil, err
	}

	s.logger.Info("Create: appointment id=%d created", created.ID)
	s.publish(ctx, eventbus.EventAppointmentCreated, created, "")

	return models.FromDomainAppointment(created), nil
}

// Update применяет частичное обновление.
// При смене слота заново проверяет слот автомобиля клиента (исключая саму запись),
// при смене механика или слота с назначенным механиком - слот механика.
// Завершенные и отмененные записи не изменяются.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Update: appointment id=%d", id)

	patch, err := toDomainPatch(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("Update", err)
	}

	keys := updateLockKeys(current, patch)

	var updated *domain.Appointment
	err = s.withSlotLock(ctx, "Update", keys, func(lockCtx context.Context) error {
		return s.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			current, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}

			if current.IsTerminal() {
				return fmt.Errorf("%w: appointment id=%d is %s and cannot be modified", ErrIllegalTransition, id, current.Status)
			}

			target := applyPatch(current, patch)
			slotChanged, staffChanged := detectChanges(current, target)

			if slotChanged {
				res, err := s.checker.CheckVehicleSlot(txCtx, target.VehicleClientID, target.Date, target.Time, &id)
				if err != nil {
					return err
				}
				if res.Occupied {
					return s.conflict(DimensionVehicle, "vehicle-client slot is already booked", res.Conflicting)
				}
			}

			if target.HasStaff() && (staffChanged || slotChanged) {
				res, err := s.checker.CheckStaffSlot(txCtx, *target.AssignedStaffID, target.Date, target.Time, &id)
				if err != nil {
					return err
				}
				if res.Occupied {
					return s.conflict(DimensionStaff, "staff member is busy at this time", res.Conflicting)
				}
			}

			updated, err = s.repo.Update(txCtx, id, patch)
			return err
		})
	})
	if err != nil {
		return nil, s.translate("Update", err)
	}

	s.logger.Info("Update: appointment id=%d updated", id)
	s.publish(ctx, eventbus.EventAppointmentUpdated, updated, "")

	return models.FromDomainAppointment(updated), nil
}

// UpdateStatus меняет статус по таблице переходов.
// Из completed и cancelled переходов нет, переход в тот же статус тоже запрещен.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d, status=%s", id, req.Status)

	target, err := parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	var (
		previous domain.AppointmentStatus
		updated  *domain.Appointment
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if !current.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, target)
		}

		previous = current.Status
		updated, err = s.repo.UpdateStatus(txCtx, id, current.Status, target)
		return err
	})
	if err != nil {
		return nil, s.translate("UpdateStatus", err)
	}

	s.metrics.RecordTransition(previous.String(), target.String())
	s.logger.Info("UpdateStatus: appointment id=%d %s -> %s", id, previous, target)
	s.publish(ctx, eventbus.EventAppointmentStatusChanged, updated, previous)

	return models.FromDomainAppointment(updated), nil
}

// AssignStaff назначает механика и переводит запись в accepted.
// Допустимо только из waiting и только если механик свободен в слоте записи.
func (s *Service) AssignStaff(ctx context.Context, id int64, req *models.AssignStaffRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("AssignStaff: appointment id=%d, staff=%d", id, req.StaffID)

	if req.StaffID <= 0 {
		s.logger.Warn("AssignStaff: invalid staff id=%d", req.StaffID)
		return nil, fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("AssignStaff", err)
	}

	keys := []string{lock.StaffSlotKey(req.StaffID, types.FormatDate(current.Date), current.Time.String())}

	var updated *domain.Appointment
	err = s.withSlotLock(ctx, "AssignStaff", keys, func(lockCtx context.Context) error {
		return s.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			current, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}

			if !current.CanAssignStaff() || !current.Status.CanTransitionTo(domain.StatusAccepted) {
				return s.conflict(DimensionStatus,
					fmt.Sprintf("staff can only be assigned to a waiting appointment, current status is %s", current.Status),
					current)
			}

			res, err := s.checker.CheckStaffSlot(txCtx, req.StaffID, current.Date, current.Time, &id)
			if err != nil {
				return err
			}
			if res.Occupied {
				return s.conflict(DimensionStaff, "staff member is busy at this time", res.Conflicting)
			}

			updated, err = s.repo.AssignStaff(txCtx, id, req.StaffID)
			return err
		})
	})
	if err != nil {
		return nil, s.translate("AssignStaff", err)
	}

	s.metrics.RecordTransition(domain.StatusWaiting.String(), domain.StatusAccepted.String())
	s.logger.Info("AssignStaff: staff=%d assigned to appointment id=%d", req.StaffID, id)
	s.publish(ctx, eventbus.EventAppointmentStaffAssigned, updated, domain.StatusWaiting)

	return models.FromDomainAppointment(updated), nil
}

// Delete физически удаляет запись. Разрешено только для отмененных записей.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: appointment id=%d", id)

	var deleted *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if !current.CanBeDeleted() {
			return fmt.Errorf("%w: only cancelled appointments can be deleted, appointment id=%d is %s",
				ErrPreconditionFailed, id, current.Status)
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		return s.translate("Delete", err)
	}

	s.logger.Info("Delete: appointment id=%d deleted", id)
	s.publish(ctx, eventbus.EventAppointmentDeleted, deleted, "")

	return nil
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("GetByID", err)
	}

	return models.FromDomainAppointment(a), nil
}

// List получает записи по фильтру
//
// Примеры использования:
// - Записи на день: Date = "2025-06-10"
// - Записи за период: StartDate и EndDate
// - Расписание механика: StaffID
// - История автомобиля клиента: VehicleClientID
// - Только ожидающие: Status = "waiting"
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("List: validation failed: %v", err)
		return nil, err
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.translate("List", err)
	}

	s.logger.Info("List: fetched %d appointments", len(list))
	return models.FromDomainAppointmentList(list), nil
}

// CheckSlot отвечает, свободен ли слот для автомобиля клиента и/или механика
func (s *Service) CheckSlot(ctx context.Context, req *models.CheckSlotRequest) (*models.SlotCheckResponse, error) {
	if req.VehicleClientID == nil && req.StaffID == nil {
		return nil, fmt.Errorf("%w: vehicleClientId or staffId is required", ErrInvalidInput)
	}

	date, at, err := availability.ParseSlot(req.Date, req.Time)
	if err != nil {
		s.logger.Warn("CheckSlot: validation failed: %v", err)
		return nil, s.translate("CheckSlot", err)
	}

	resp := &models.SlotCheckResponse{
		Date: types.FormatDate(date),
		Time: at.String(),
	}

	if req.VehicleClientID != nil {
		res, err := s.checker.CheckVehicleSlot(ctx, *req.VehicleClientID, date, at, req.ExcludeID)
		if err != nil {
			return nil, s.translate("CheckSlot", err)
		}
		resp.VehicleSlot = toSlotStatus(res)
	}

	if req.StaffID != nil {
		res, err := s.checker.CheckStaffSlot(ctx, *req.StaffID, date, at, req.ExcludeID)
		if err != nil {
			return nil, s.translate("CheckSlot", err)
		}
		resp.StaffSlot = toSlotStatus(res)
	}

	return resp, nil
}

// GetStatistics считает записи по статусам и записи на сегодня
func (s *Service) GetStatistics(ctx context.Context) (*models.StatisticsResponse, error) {
	today := s.today()
	s.logger.Info("GetStatistics: today=%s", types.FormatDate(today))

	stats, err := s.repo.GetStatistics(ctx, today)
	if err != nil {
		return nil, s.translate("GetStatistics", err)
	}

	return models.FromDomainStatistics(stats), nil
}

// today текущий календарный день мастерской (полночь UTC этого дня)
func (s *Service) today() time.Time {
	return types.DateOnly(s.timeProvider.Now().In(s.location))
}

// withSlotLock выполняет fn под блокировкой слотов.
// Если Redis недоступен, работаем без блокировки: гонку закрывают транзакция и уникальные индексы.
func (s *Service) withSlotLock(ctx context.Context, op string, keys []string, fn func(ctx context.Context) error) error {
	if len(keys) == 0 {
		return fn(ctx)
	}

	err := s.locker.WithLock(ctx, keys, fn)
	if errors.Is(err, lock.ErrAcquire) {
		s.logger.Warn("%s: slot lock unavailable, continuing without it: %v", op, err)
		return fn(ctx)
	}
	return err
}

// conflict создает ошибку конфликта и учитывает ее в метриках
func (s *Service) conflict(dimension, reason string, existing *domain.Appointment) *ConflictError {
	s.metrics.RecordConflict(dimension)
	return &ConflictError{
		Dimension: dimension,
		Reason:    reason,
		Existing:  existing,
	}
}

// translate приводит ошибки нижних слоев к ошибкам сервиса и логирует их
func (s *Service) translate(op string, err error) error {
	var conflictErr *ConflictError

	switch {
	case errors.As(err, &conflictErr):
		s.logger.Warn("%s: %v", op, err)
		return conflictErr
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrIllegalTransition),
		errors.Is(err, ErrPreconditionFailed),
		errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrInternal):
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, availability.ErrInvalidInput):
		s.logger.Warn("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment not found", op)
		return ErrAppointmentNotFound
	case errors.Is(err, lock.ErrLockNotAcquired):
		s.logger.Warn("%s: %v", op, err)
		return s.conflict(DimensionLock, "slot is being booked by another request", nil)
	case errors.Is(err, appointmentRepo.ErrVehicleSlotOccupied):
		s.logger.Warn("%s: %v", op, err)
		return s.conflict(DimensionVehicle, "vehicle-client slot is already booked", nil)
	case errors.Is(err, appointmentRepo.ErrStaffSlotOccupied):
		s.logger.Warn("%s: %v", op, err)
		return s.conflict(DimensionStaff, "staff member is busy at this time", nil)
	case errors.Is(err, appointmentRepo.ErrSerialization), errors.Is(err, appointmentRepo.ErrStatusMismatch):
		s.logger.Warn("%s: %v", op, err)
		return s.conflict(DimensionConcurrent, "appointment was modified concurrently, retry with fresh data", nil)
	default:
		s.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}

// attachVehicleConflict дочитывает занявшую слот запись, если конфликт пришел от уникального индекса
func (s *Service) attachVehicleConflict(ctx context.Context, err error, vehicleClientID int64, date time.Time, at types.TimeString, excludeID *int64) {
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) || conflictErr.Existing != nil {
		return
	}
	if conflictErr.Dimension != DimensionVehicle && conflictErr.Dimension != DimensionConcurrent {
		return
	}

	res, checkErr := s.checker.CheckVehicleSlot(ctx, vehicleClientID, date, at, excludeID)
	if checkErr != nil || !res.Occupied {
		return
	}
	conflictErr.Existing = res.Conflicting
}

// publish отправляет событие; ошибка публикации не влияет на результат операции
func (s *Service) publish(ctx context.Context, eventType string, a *domain.Appointment, previous domain.AppointmentStatus) {
	if a == nil {
		return
	}

	event := eventbus.Event{
		Type:            eventType,
		AppointmentID:   a.ID,
		VehicleClientID: a.VehicleClientID,
		Date:            types.FormatDate(a.Date),
		Time:            a.Time.String(),
		Status:          a.Status.String(),
		PreviousStatus:  previous.String(),
		AssignedStaffID: a.AssignedStaffID,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish %s for appointment id=%d failed: %v", eventType, a.ID, err)
	}
}

// applyPatch возвращает копию записи с примененным патчем
func applyPatch(current *domain.Appointment, patch domain.AppointmentPatch) *domain.Appointment {
	target := *current

	if patch.VehicleClientID != nil {
		target.VehicleClientID = *patch.VehicleClientID
	}
	if patch.Date != nil {
		target.Date = *patch.Date
	}
	if patch.Time != nil {
		target.Time = *patch.Time
	}
	if patch.Description != nil {
		target.Description = *patch.Description
	}
	switch {
	case patch.ClearAssignedStaff:
		target.AssignedStaffID = nil
	case patch.AssignedStaffID != nil:
		staffID := *patch.AssignedStaffID
		target.AssignedStaffID = &staffID
	}

	return &target
}

// updateLockKeys ключи блокировки для слотов, которые затрагивает обновление
func updateLockKeys(current *domain.Appointment, patch domain.AppointmentPatch) []string {
	target := applyPatch(current, patch)
	date := types.FormatDate(target.Date)
	at := target.Time.String()

	slotChanged, staffChanged := detectChanges(current, target)

	keys := make([]string, 0, 2)
	if slotChanged {
		keys = append(keys, lock.VehicleSlotKey(target.VehicleClientID, date, at))
	}
	if target.HasStaff() && (slotChanged || staffChanged) {
		keys = append(keys, lock.StaffSlotKey(*target.AssignedStaffID, date, at))
	}
	return keys
}

// detectChanges сравнивает слот и механика до и после патча
func detectChanges(current, target *domain.Appointment) (slotChanged, staffChanged bool) {
	slotChanged = target.VehicleClientID != current.VehicleClientID ||
		!current.SameSlot(target.Date, target.Time)
	staffChanged = target.HasStaff() &&
		(!current.HasStaff() || *current.AssignedStaffID != *target.AssignedStaffID)
	return slotChanged, staffChanged
}

func toSlotStatus(res *availability.SlotResult) *models.SlotStatus {
	return &models.SlotStatus{
		Occupied:               res.Occupied,
		ConflictingAppointment: models.FromDomainAppointment(res.Conflicting),
	}
}
