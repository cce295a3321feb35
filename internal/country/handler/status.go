package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type StatusResponse struct {
	TotalCountries  int64      `json:"total_countries" example:"250"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at" example:"2025-10-22T18:00:00Z"`
}

// Status godoc
// @Summary Store status
// @Description Total number of countries and the time of the most recent refresh (null when empty)
// @Tags Status
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} errorResponse
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Status(r.Context())
	if err != nil {
		writeInternalError(w, err, logrus.Fields{"handler": "Status"})
		return
	}

	res := StatusResponse{TotalCountries: st.TotalCountries}
	if st.LastRefreshedAt != nil {
		utc := st.LastRefreshedAt.UTC()
		res.LastRefreshedAt = &utc
	}
	writeJSON(w, http.StatusOK, res)
}
