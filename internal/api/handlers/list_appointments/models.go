package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// Здесь разбираются только числа; даты и статус проверяет сервис.
func ToServiceRequest(query url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{}

	var err error
	if req.VehicleClientID, err = optionalInt64(query, "vehicleClientId"); err != nil {
		return nil, err
	}
	if req.StaffID, err = optionalInt64(query, "staffId"); err != nil {
		return nil, err
	}

	req.Date = optionalString(query, "date")
	req.StartDate = optionalString(query, "startDate")
	req.EndDate = optionalString(query, "endDate")
	req.Status = optionalString(query, "status")

	if req.Limit, err = optionalInt(query, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = optionalInt(query, "offset"); err != nil {
		return nil, err
	}

	return req, nil
}

func optionalString(query url.Values, key string) *string {
	value := query.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func optionalInt64(query url.Values, key string) (*int64, error) {
	value := query.Get(key)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return &parsed, nil
}

func optionalInt(query url.Values, key string) (int, error) {
	value := query.Get(key)
	if value == "" {
		return 0, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}
