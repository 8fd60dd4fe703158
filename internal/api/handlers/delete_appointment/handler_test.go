package delete_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	deleted []int64
	err     error
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func doRequest(h *Handler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := doRequest(NewHandler(svc, nopLogger{}), "6")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{6}, svc.deleted)

	var body DeleteAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, DeleteAppointmentResponse{ID: 6, Deleted: true}, body)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "bad id", id: "six", wantStatus: http.StatusBadRequest},
		{name: "not found", id: "6", err: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{
			name:       "not cancelled",
			id:         "6",
			err:        fmt.Errorf("%w: appointment id=6 is waiting", appointments.ErrPreconditionFailed),
			wantStatus: http.StatusBadRequest,
		},
		{name: "internal", id: "6", err: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(NewHandler(&fakeService{err: tt.err}, nopLogger{}), tt.id)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
