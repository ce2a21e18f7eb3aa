package dtos

type HealthCheckResponse struct {
	Status string `json:"status"`
}

type ServerCheckResponse struct {
	Message string `json:"message"`
}
