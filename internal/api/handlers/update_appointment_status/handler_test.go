package update_appointment_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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
	got  *models.UpdateStatusRequest
	resp *models.AppointmentResponse
	err  error
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: req.Status}, nil
}

func doRequest(h *Handler, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := doRequest(NewHandler(svc, nopLogger{}), "4", `{"status":"cancelled"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "cancelled", svc.got.Status)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad id", id: "-1", body: `{"status":"accepted"}`, wantStatus: http.StatusBadRequest},
		{name: "bad body", id: "1", body: `status=accepted`, wantStatus: http.StatusBadRequest},
		{
			name:       "unknown status",
			id:         "1",
			body:       `{"status":"archived"}`,
			err:        fmt.Errorf("%w: unknown status", appointments.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{name: "not found", id: "1", body: `{"status":"accepted"}`, err: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound},
		{
			name:       "illegal transition",
			id:         "1",
			body:       `{"status":"waiting"}`,
			err:        fmt.Errorf("%w: completed -> waiting", appointments.ErrIllegalTransition),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "concurrent update",
			id:         "1",
			body:       `{"status":"completed"}`,
			err:        &appointments.ConflictError{Dimension: appointments.DimensionConcurrent},
			wantStatus: http.StatusConflict,
		},
		{name: "internal", id: "1", body: `{"status":"completed"}`, err: appointments.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(NewHandler(&fakeService{err: tt.err}, nopLogger{}), tt.id, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
