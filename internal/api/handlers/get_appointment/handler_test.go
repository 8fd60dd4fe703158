package get_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
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
	calls int
	resp  *models.AppointmentResponse
	err   error
}

func (f *fakeService) GetByID(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	f.calls++
	if f.resp != nil {
		f.resp.ID = id
	}
	return f.resp, f.err
}

func doRequest(h *Handler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentResponse{Status: "waiting"}}
	rec := doRequest(NewHandler(svc, nopLogger{}), "42")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.ID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
		wantCalls  int
	}{
		{name: "not a number", id: "abc", wantStatus: http.StatusBadRequest},
		{name: "non-positive", id: "0", wantStatus: http.StatusBadRequest},
		{name: "not found", id: "5", err: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound, wantCalls: 1},
		{name: "internal", id: "5", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec := doRequest(NewHandler(svc, nopLogger{}), tt.id)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, svc.calls)
		})
	}
}
