package check_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got  *models.CheckSlotRequest
	resp *models.SlotCheckResponse
	err  error
}

func (f *fakeService) CheckSlot(_ context.Context, req *models.CheckSlotRequest) (*models.SlotCheckResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestToServiceRequest(t *testing.T) {
	query := url.Values{}
	query.Set("date", "2030-05-10")
	query.Set("time", "10:00")
	query.Set("vehicleClientId", "7")
	query.Set("excludeId", "12")

	req, err := ToServiceRequest(query)
	require.NoError(t, err)

	assert.Equal(t, "2030-05-10", req.Date)
	assert.Equal(t, "10:00", req.Time)
	require.NotNil(t, req.VehicleClientID)
	assert.Equal(t, int64(7), *req.VehicleClientID)
	assert.Nil(t, req.StaffID)
	require.NotNil(t, req.ExcludeID)
	assert.Equal(t, int64(12), *req.ExcludeID)
}

func TestToServiceRequest_InvalidID(t *testing.T) {
	query := url.Values{}
	query.Set("staffId", "mechanic")

	_, err := ToServiceRequest(query)
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := &fakeService{resp: &models.SlotCheckResponse{
		Date: "2030-05-10",
		Time: "10:00",
		VehicleSlot: &models.SlotStatus{
			Occupied:               true,
			ConflictingAppointment: &models.AppointmentResponse{ID: 3, Status: "waiting"},
		},
		StaffSlot: &models.SlotStatus{Occupied: false},
	}}
	h := NewHandler(svc, nopLogger{})

	target := "/api/v1/appointments/slot-check?date=2030-05-10&time=10:00&vehicleClientId=7&staffId=2"
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.StaffID)
	assert.Equal(t, int64(2), *svc.got.StaffID)

	var body models.SlotCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.VehicleSlot)
	assert.True(t, body.VehicleSlot.Occupied)
	require.NotNil(t, body.VehicleSlot.ConflictingAppointment)
	assert.Equal(t, int64(3), body.VehicleSlot.ConflictingAppointment.ID)
	require.NotNil(t, body.StaffSlot)
	assert.False(t, body.StaffSlot.Occupied)
	assert.Nil(t, body.StaffSlot.ConflictingAppointment)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad id", target: "/api/v1/appointments/slot-check?vehicleClientId=x", wantStatus: http.StatusBadRequest},
		{
			name:       "missing dimension",
			target:     "/api/v1/appointments/slot-check?date=2030-05-10&time=10:00",
			err:        fmt.Errorf("%w: vehicleClientId or staffId is required", appointments.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "internal",
			target:     "/api/v1/appointments/slot-check?date=2030-05-10&time=10:00&staffId=1",
			err:        appointments.ErrInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
