package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/surajkumar989/NeuralSync/internal/service/stats"
	"github.com/surajkumar989/NeuralSync/pkg/utils"
)

// Handler serves the dashboard aggregates.
type Handler struct {
	statsSvc *stats.Service
}

// New creates the dashboard handler.
func New(statsSvc *stats.Service) *Handler {
	return &Handler{statsSvc: statsSvc}
}

// RegisterRoutes mounts the dashboard route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.statsSvc.Summarize(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to build dashboard stats")
		return
	}

	utils.RespondJSON(w, http.StatusOK, summary)
}
