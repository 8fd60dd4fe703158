package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/pkg/ptr"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	appointments []*domain.Appointment
	err          error
	lastFilter   domain.AppointmentFilter
}

func (r *fakeRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.Matches(a) {
			result = append(result, a)
		}
	}
	return result, nil
}

var day = time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)

func appointment(id, vc int64, status domain.AppointmentStatus, staff *int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		VehicleClientID: vc,
		Date:            day,
		Time:            "09:00",
		Description:     "oil change",
		AssignedStaffID: staff,
		Status:          status,
	}
}

func TestCheckVehicleSlot(t *testing.T) {
	tests := []struct {
		name         string
		existing     []*domain.Appointment
		excludeID    *int64
		wantOccupied bool
		wantID       int64
	}{
		{
			name:         "empty slot",
			wantOccupied: false,
		},
		{
			name:         "waiting occupies",
			existing:     []*domain.Appointment{appointment(1, 101, domain.StatusWaiting, nil)},
			wantOccupied: true,
			wantID:       1,
		},
		{
			name:         "accepted occupies",
			existing:     []*domain.Appointment{appointment(2, 101, domain.StatusAccepted, nil)},
			wantOccupied: true,
			wantID:       2,
		},
		{
			name: "cancelled and completed do not occupy",
			existing: []*domain.Appointment{
				appointment(3, 101, domain.StatusCancelled, nil),
				appointment(4, 101, domain.StatusCompleted, nil),
			},
			wantOccupied: false,
		},
		{
			name:         "other vehicle-client does not occupy",
			existing:     []*domain.Appointment{appointment(5, 202, domain.StatusWaiting, nil)},
			wantOccupied: false,
		},
		{
			name:         "self is excluded",
			existing:     []*domain.Appointment{appointment(6, 101, domain.StatusWaiting, nil)},
			excludeID:    ptr.Ptr(int64(6)),
			wantOccupied: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(&fakeRepo{appointments: tt.existing}, nopLogger{})

			res, err := checker.CheckVehicleSlot(context.Background(), 101, day, "09:00", tt.excludeID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOccupied, res.Occupied)
			assert.Equal(t, !tt.wantOccupied, res.Available())
			if tt.wantOccupied {
				require.NotNil(t, res.Conflicting)
				assert.Equal(t, tt.wantID, res.Conflicting.ID)
			} else {
				assert.Nil(t, res.Conflicting)
			}
		})
	}
}

func TestCheckStaffSlot_CompletedStillOccupies(t *testing.T) {
	staff := ptr.Ptr(int64(9))
	repo := &fakeRepo{appointments: []*domain.Appointment{
		appointment(1, 101, domain.StatusCompleted, staff),
	}}
	checker := NewChecker(repo, nopLogger{})

	res, err := checker.CheckStaffSlot(context.Background(), 9, day, "09:00", nil)
	require.NoError(t, err)
	assert.True(t, res.Occupied)
	assert.Equal(t, domain.StaffSlotFreeStatuses, repo.lastFilter.ExcludeStatuses)

	repo.appointments[0].Status = domain.StatusCancelled
	res, err = checker.CheckStaffSlot(context.Background(), 9, day, "09:00", nil)
	require.NoError(t, err)
	assert.False(t, res.Occupied)
}

func TestCheckStaffSlot_ExcludesSelf(t *testing.T) {
	staff := ptr.Ptr(int64(9))
	checker := NewChecker(&fakeRepo{appointments: []*domain.Appointment{
		appointment(1, 101, domain.StatusAccepted, staff),
	}}, nopLogger{})

	res, err := checker.CheckStaffSlot(context.Background(), 9, day, "09:00", ptr.Ptr(int64(1)))
	require.NoError(t, err)
	assert.True(t, res.Available())
}

func TestCheck_ValidationErrors(t *testing.T) {
	checker := NewChecker(&fakeRepo{}, nopLogger{})
	ctx := context.Background()

	_, err := checker.CheckVehicleSlot(ctx, 0, day, "09:00", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = checker.CheckVehicleSlot(ctx, 101, time.Time{}, "09:00", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = checker.CheckVehicleSlot(ctx, 101, day, "24:00", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = checker.CheckStaffSlot(ctx, -1, day, "09:00", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheck_RepositoryError(t *testing.T) {
	checker := NewChecker(&fakeRepo{err: errors.New("db down")}, nopLogger{})

	_, err := checker.CheckVehicleSlot(context.Background(), 101, day, "09:00", nil)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestParseSlot(t *testing.T) {
	d, ts, err := ParseSlot("2030-06-10", "9:05")
	require.NoError(t, err)
	assert.Equal(t, day, d)
	assert.Equal(t, types.TimeString("09:05"), ts)

	_, _, err = ParseSlot("10.06.2030", "09:00")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = ParseSlot("2030-06-10", "9am")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
