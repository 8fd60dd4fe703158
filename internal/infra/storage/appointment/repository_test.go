package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "vehicle slot unique violation",
			err:  &pq.Error{Code: pgUniqueViolation, Constraint: vehicleSlotIndex},
			want: ErrVehicleSlotOccupied,
		},
		{
			name: "staff slot unique violation",
			err:  &pq.Error{Code: pgUniqueViolation, Constraint: staffSlotIndex},
			want: ErrStaffSlotOccupied,
		},
		{
			name: "other unique violation",
			err:  &pq.Error{Code: pgUniqueViolation, Constraint: "appointments_pkey"},
			want: ErrExecQuery,
		},
		{
			name: "serialization failure",
			err:  &pq.Error{Code: pgSerializationFailure},
			want: ErrSerialization,
		},
		{
			name: "deadlock",
			err:  &pq.Error{Code: pgDeadlockDetected},
			want: ErrSerialization,
		},
		{
			name: "check violation",
			err:  &pq.Error{Code: pgCheckViolation},
			want: ErrInvalidStatus,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			want: ErrExecQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError("Create", tt.err), tt.want)
		})
	}
}

func TestBuildListQuery_SlotLookup(t *testing.T) {
	day := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
	at := types.TimeString("10:00")

	filter := domain.AppointmentFilter{
		VehicleClientID: ptr.Ptr(int64(7)),
		StartDate:       &day,
		EndDate:         &day,
		Time:            &at,
		Statuses:        domain.VehicleSlotStatuses,
		ExcludeID:       ptr.Ptr(int64(3)),
	}

	query, args, err := buildListQuery(filter, true)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM appointments")
	assert.Contains(t, query, "vehicle_client_id = $1")
	assert.Contains(t, query, "appointment_date >= $2")
	assert.Contains(t, query, "appointment_date <= $3")
	assert.Contains(t, query, "appointment_time = $4")
	assert.Contains(t, query, "status IN ($5,$6)")
	assert.Contains(t, query, "id <> $7")
	assert.Contains(t, query, "FOR UPDATE")

	assert.Equal(t, []interface{}{
		int64(7), "2030-05-10", "2030-05-10", "10:00", "waiting", "accepted", int64(3),
	}, args)
}

func TestBuildListQuery_NoLockOutsideTransaction(t *testing.T) {
	day := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
	at := types.TimeString("10:00")

	query, _, err := buildListQuery(domain.AppointmentFilter{StartDate: &day, EndDate: &day, Time: &at}, false)
	require.NoError(t, err)
	assert.NotContains(t, query, "FOR UPDATE")
}

func TestBuildListQuery_RangeIsNotLocked(t *testing.T) {
	from := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	query, args, err := buildListQuery(domain.AppointmentFilter{
		StaffID:         ptr.Ptr(int64(2)),
		StartDate:       &from,
		EndDate:         &to,
		ExcludeStatuses: domain.StaffSlotFreeStatuses,
		Limit:           20,
		Offset:          40,
	}, true)
	require.NoError(t, err)

	assert.Contains(t, query, "assigned_staff_id = $1")
	assert.Contains(t, query, "status NOT IN ($4)")
	assert.Contains(t, query, "LIMIT 20")
	assert.Contains(t, query, "OFFSET 40")
	assert.NotContains(t, query, "FOR UPDATE")
	assert.Equal(t, []interface{}{int64(2), "2030-05-10", "2030-05-17", "cancelled"}, args)
}

func TestBuildUpdateQuery(t *testing.T) {
	t.Run("clear staff wins", func(t *testing.T) {
		query, args, err := buildUpdateQuery(5, domain.AppointmentPatch{
			AssignedStaffID:    ptr.Ptr(int64(9)),
			ClearAssignedStaff: true,
		})
		require.NoError(t, err)

		assert.Contains(t, query, "UPDATE appointments SET")
		assert.Contains(t, query, "assigned_staff_id = $1")
		assert.Contains(t, query, "updated_at = NOW()")
		assert.Contains(t, query, "RETURNING id,")
		assert.Equal(t, []interface{}{nil, int64(5)}, args)
	})

	t.Run("date is sent as YYYY-MM-DD", func(t *testing.T) {
		day := time.Date(2030, 1, 2, 15, 30, 0, 0, time.UTC)
		_, args, err := buildUpdateQuery(1, domain.AppointmentPatch{Date: &day})
		require.NoError(t, err)
		assert.Contains(t, args, "2030-01-02")
	})

	t.Run("empty patch", func(t *testing.T) {
		_, _, err := buildUpdateQuery(1, domain.AppointmentPatch{})
		assert.Error(t, err)
	})
}

func TestBuildStatisticsQuery(t *testing.T) {
	today := time.Date(2030, 5, 10, 9, 0, 0, 0, time.UTC)

	query, args, err := buildStatisticsQuery(today)
	require.NoError(t, err)

	assert.Contains(t, query, "COUNT(*) FILTER (WHERE status = $1)")
	assert.Contains(t, query, "COUNT(*) FILTER (WHERE appointment_date = $5)")
	assert.Equal(t, []interface{}{
		domain.StatusWaiting, domain.StatusAccepted, domain.StatusCompleted, domain.StatusCancelled, "2030-05-10",
	}, args)
}
