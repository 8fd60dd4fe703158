package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

func returningClause() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// buildListQuery строит SELECT по фильтру.
// Поиск по одному слоту внутри транзакции блокирует найденные строки.
func buildListQuery(filter domain.AppointmentFilter, inTx bool) (string, []interface{}, error) {
	builder := psqlbuilder.Select(columns...).From(tableName)

	if filter.VehicleClientID != nil {
		builder = builder.Where(squirrel.Eq{"vehicle_client_id": *filter.VehicleClientID})
	}
	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"assigned_staff_id": *filter.StaffID})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"appointment_date": types.FormatDate(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"appointment_date": types.FormatDate(*filter.EndDate)})
	}
	if filter.Time != nil {
		builder = builder.Where(squirrel.Eq{"appointment_time": filter.Time.String()})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if len(filter.ExcludeStatuses) > 0 {
		builder = builder.Where(squirrel.NotEq{"status": statusStrings(filter.ExcludeStatuses)})
	}
	if filter.ExcludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	builder = builder.OrderBy("appointment_date ASC", "appointment_time ASC", "id ASC")

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	if inTx && filter.IsSlotLookup() {
		builder = builder.Suffix("FOR UPDATE")
	}

	return builder.ToSql()
}

// buildUpdateQuery строит UPDATE только по заданным полям патча
func buildUpdateQuery(id int64, patch domain.AppointmentPatch) (string, []interface{}, error) {
	setMap := make(map[string]interface{})

	if patch.VehicleClientID != nil {
		setMap["vehicle_client_id"] = *patch.VehicleClientID
	}
	if patch.Date != nil {
		setMap["appointment_date"] = types.FormatDate(*patch.Date)
	}
	if patch.Time != nil {
		setMap["appointment_time"] = patch.Time.String()
	}
	if patch.Description != nil {
		setMap["description"] = *patch.Description
	}
	switch {
	case patch.ClearAssignedStaff:
		setMap["assigned_staff_id"] = nil
	case patch.AssignedStaffID != nil:
		setMap["assigned_staff_id"] = *patch.AssignedStaffID
	}

	if len(setMap) == 0 {
		return "", nil, fmt.Errorf("empty patch")
	}

	setMap["updated_at"] = squirrel.Expr("NOW()")

	return psqlbuilder.Update(tableName).
		SetMap(setMap).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningClause()).
		ToSql()
}

// buildStatisticsQuery считает записи по статусам через агрегатные FILTER
func buildStatisticsQuery(today time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusWaiting)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusAccepted)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusCompleted)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusCancelled)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE appointment_date = ?)", types.FormatDate(today))).
		From(tableName).
		ToSql()
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, string(s))
	}
	return result
}
