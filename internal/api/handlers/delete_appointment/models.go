package delete_appointment

// DeleteAppointmentResponse HTTP response model
type DeleteAppointmentResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
