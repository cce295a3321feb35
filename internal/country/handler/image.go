package handler

import (
	"countryfx/internal/domain"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Image godoc
// @Summary Summary image
// @Description PNG with the total count, last refresh time and top 5 countries by estimated GDP
// @Tags Countries
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /countries/image [get]
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.SummaryImage(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			writeError(w, http.StatusNotFound, msgImageNotFound)
			return
		}
		writeInternalError(w, err, logrus.Fields{"handler": "Image"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
