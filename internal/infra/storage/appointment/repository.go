package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkshopService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"vehicle_client_id",
	"appointment_date",
	"appointment_time",
	"description",
	"assigned_staff_id",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Частичные уникальные индексы по слотам - последняя линия защиты от двойной записи:
// их нарушение возвращается как ErrVehicleSlotOccupied / ErrStaffSlotOccupied.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"vehicle_client_id",
			"appointment_date",
			"appointment_time",
			"description",
			"assigned_staff_id",
			"status",
		).
		Values(
			a.VehicleClientID,
			types.FormatDate(a.Date),
			a.Time,
			a.Description,
			a.AssignedStaffID,
			a.Status,
		).
		Suffix(returningClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translateError("Create", err)
	}

	return created, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// List получает записи по фильтру.
//
// Примеры использования:
//
// 1. Записи на день:
//
//	filter := domain.AppointmentFilter{StartDate: &day, EndDate: &day}
//
// 2. Активные записи автомобиля клиента в слоте (проверка конфликта):
//
//	filter := domain.AppointmentFilter{VehicleClientID: &id, StartDate: &day, EndDate: &day,
//		Time: &t, Statuses: domain.VehicleSlotStatuses}
//
// 3. Расписание механика без отмененных:
//
//	filter := domain.AppointmentFilter{StaffID: &staffID, StartDate: &day, EndDate: &day,
//		ExcludeStatuses: domain.StaffSlotFreeStatuses}
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildListQuery(filter, dbmetrics.IsInTransaction(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError("List", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Update применяет частичное обновление и возвращает запись целиком
func (r *Repository) Update(ctx context.Context, id int64, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	if patch.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildUpdateQuery(id, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, translateError("Update", err)
	}

	return updated, nil
}

// UpdateStatus меняет статус только если текущий статус равен from (compare-and-set)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix(returningClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, translateError("UpdateStatus", err)
	}

	return updated, nil
}

// AssignStaff назначает механика и переводит запись в accepted одним UPDATE.
// Срабатывает только для записей в статусе waiting.
func (r *Repository) AssignStaff(ctx context.Context, id int64, staffID int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("assigned_staff_id", staffID).
		Set("status", domain.StatusAccepted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusWaiting}).
		Suffix(returningClause()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AssignStaff - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, translateError("AssignStaff", err)
	}

	return updated, nil
}

// Delete удаляет запись (физическое удаление)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError("Delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// GetStatistics считает записи по статусам и записи на сегодня одним запросом
func (r *Repository) GetStatistics(ctx context.Context, today time.Time) (*domain.AppointmentStatistics, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildStatisticsQuery(today)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStatistics - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.AppointmentStatistics
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Waiting,
		&stats.Accepted,
		&stats.Completed,
		&stats.Cancelled,
		&stats.Today,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStatistics - scan statistics: %v", ErrScanRow, err)
	}

	return &stats, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		createdAt, updatedAt sql.NullTime
		staffID              sql.NullInt64
	)

	err := row.Scan(
		&a.ID,
		&a.VehicleClientID,
		&a.Date,
		&a.Time,
		&a.Description,
		&staffID,
		&a.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		id := staffID.Int64
		a.AssignedStaffID = &id
	}
	a.Date = types.DateOnly(a.Date)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
