package health

import (
	"net/http"

	"github.com/fg-stock-dashboard/api/internal/infrastructure/json"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Reports process liveness with a fixed payload
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Router       /health [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, healthResponse{
		Status:  StatusHealthy,
		Service: ServiceName,
	})
}
