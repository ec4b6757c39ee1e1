package health

const (
	StatusHealthy = "healthy"
	ServiceName   = "fg-stock-dashboard-api"
)

// healthResponse represents the liveness payload of the API
type healthResponse struct {
	Status  string `json:"status" example:"healthy"`                 // Always "healthy" while the process serves
	Service string `json:"service" example:"fg-stock-dashboard-api"` // Service identifier
}
