package handler

import (
	"countryfx/internal/country"
	"countryfx/internal/domain"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// GetByName godoc
// @Summary Get country by name
// @Description Case-insensitive lookup by country name
// @Tags Countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} CountryResponse
// @Failure 400 {object} validationErrorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /countries/{name} [get]
func (h *Handler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if rejectInvalid(w, country.ValidateName(name)) {
		return
	}

	c, err := h.service.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			writeError(w, http.StatusNotFound, msgCountryNotFound)
			return
		}
		writeInternalError(w, err, logrus.Fields{"handler": "GetByName", "name": name})
		return
	}

	writeJSON(w, http.StatusOK, toCountryResponse(c))
}
