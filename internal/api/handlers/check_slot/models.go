package check_slot

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-WorkshopService/internal/service/appointments/models"
)

// ToServiceRequest создает запрос проверки слота из query параметров
func ToServiceRequest(query url.Values) (*models.CheckSlotRequest, error) {
	req := &models.CheckSlotRequest{
		Date: query.Get("date"),
		Time: query.Get("time"),
	}

	for key, dst := range map[string]**int64{
		"vehicleClientId": &req.VehicleClientID,
		"staffId":         &req.StaffID,
		"excludeId":       &req.ExcludeID,
	} {
		value := query.Get(key)
		if value == "" {
			continue
		}

		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", key, err)
		}
		*dst = &parsed
	}

	return req, nil
}
