package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent_FillsDefaults(t *testing.T) {
	staff := int64(4)
	event := Event{
		Type:            EventAppointmentStaffAssigned,
		AppointmentID:   10,
		VehicleClientID: 7,
		Date:            "2030-05-10",
		Time:            "10:00",
		Status:          "accepted",
		PreviousStatus:  "waiting",
		AssignedStaffID: &staff,
	}

	body, err := encodeEvent(&event)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.OccurredAt.IsZero())

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "appointment.staff_assigned", decoded["type"])
	assert.Equal(t, float64(10), decoded["appointmentId"])
	assert.Equal(t, float64(4), decoded["assignedStaffId"])
	assert.Equal(t, "waiting", decoded["previousStatus"])
}

func TestEncodeEvent_KeepsExplicitValues(t *testing.T) {
	at := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	event := Event{ID: "fixed", Type: EventAppointmentDeleted, OccurredAt: at}

	body, err := encodeEvent(&event)
	require.NoError(t, err)

	assert.Equal(t, "fixed", event.ID)
	assert.Equal(t, at, event.OccurredAt)
	assert.NotContains(t, string(body), "assignedStaffId")
	assert.NotContains(t, string(body), "previousStatus")
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.Publish(context.Background(), Event{Type: EventAppointmentCreated}))
	assert.NoError(t, p.Close())
}
