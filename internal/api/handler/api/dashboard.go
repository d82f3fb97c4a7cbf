package api

import (
	"net/http"

	"github.com/newthinker/tickerscope/internal/api/response"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

// DashboardHandler serves the dashboard view as JSON.
type DashboardHandler struct {
	service *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get handles GET /api/v1/dashboard. A failed fetch is still a 200: the
// failure is part of the view, as it is on the HTML page.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := dashboard.ParseQuery(r.URL.Query(), h.service.Defaults())
	if err != nil {
		response.Fail(w, err)
		return
	}

	view, err := h.service.Build(r.Context(), q)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}
