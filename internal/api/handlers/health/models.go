package health

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusError    = "error"

	dependencyUp   = "ok"
	dependencyDown = "down"
)

// LivenessResponse HTTP response model
type LivenessResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ReadinessResponse HTTP response model
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies"`
}
