package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/domain"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
	"github.com/m04kA/SMC-WorkshopService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got  *models.CreateAppointmentRequest
	resp *models.AppointmentResponse
	err  error
}

func (f *fakeService) Create(_ context.Context, req *models.CreateAppointmentRequest) (*models.AppointmentResponse, error) {
	f.got = req
	return f.resp, f.err
}

func doRequest(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const validBody = `{"vehicleClientId":7,"date":"2030-05-10","time":"10:00","description":"замена масла"}`

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentResponse{
		ID:              1,
		VehicleClientID: 7,
		Date:            "2030-05-10",
		Time:            "10:00",
		Description:     "замена масла",
		Status:          "waiting",
	}}
	h := NewHandler(svc, nopLogger{})

	rec := doRequest(h, validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(7), svc.got.VehicleClientID)
	assert.Equal(t, "2030-05-10", svc.got.Date)
	assert.Equal(t, "10:00", svc.got.Time)

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, "waiting", body.Status)
	assert.Nil(t, body.AssignedStaffID)
}

func TestHandle_Errors(t *testing.T) {
	existing := &domain.Appointment{
		ID:              3,
		VehicleClientID: 7,
		Date:            time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC),
		Time:            types.TimeString("10:00"),
		Status:          domain.StatusWaiting,
	}

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{
			name:       "malformed body",
			body:       `{"vehicleClientId":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation",
			body:       validBody,
			err:        fmt.Errorf("%w: date is in the past", appointments.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "conflict",
			body: validBody,
			err: &appointments.ConflictError{
				Dimension: appointments.DimensionVehicle,
				Reason:    "vehicle-client slot is already booked",
				Existing:  existing,
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "store failure",
			body:       validBody,
			err:        fmt.Errorf("%w: Create - connection refused", appointments.ErrInternal),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unexpected error",
			body:       validBody,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, nopLogger{})
			rec := doRequest(h, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_ConflictBodyCarriesExistingAppointment(t *testing.T) {
	existing := &domain.Appointment{
		ID:              3,
		VehicleClientID: 7,
		Date:            time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC),
		Time:            types.TimeString("10:00"),
		Status:          domain.StatusAccepted,
	}
	h := NewHandler(&fakeService{err: &appointments.ConflictError{
		Dimension: appointments.DimensionVehicle,
		Existing:  existing,
	}}, nopLogger{})

	rec := doRequest(h, validBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		ConflictingAppointment *models.AppointmentResponse `json:"conflictingAppointment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.ConflictingAppointment)
	assert.Equal(t, int64(3), body.ConflictingAppointment.ID)
	assert.Equal(t, "accepted", body.ConflictingAppointment.Status)
}
