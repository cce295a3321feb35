package handler

import (
	"countryfx/internal/country"
	"countryfx/internal/domain"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

type DeleteResponse struct {
	Message string `json:"message" example:"Deleted"`
	Name    string `json:"name" example:"Nigeria"`
}

// Delete godoc
// @Summary Delete country by name
// @Description Case-insensitive delete by country name
// @Tags Countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} DeleteResponse
// @Failure 400 {object} validationErrorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /countries/{name} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if rejectInvalid(w, country.ValidateName(name)) {
		return
	}

	deleted, err := h.service.Delete(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			writeError(w, http.StatusNotFound, msgCountryNotFound)
			return
		}
		writeInternalError(w, err, logrus.Fields{"handler": "Delete", "name": name})
		return
	}

	logrus.WithField("name", deleted.Name).Info("Country deleted")
	writeJSON(w, http.StatusOK, DeleteResponse{Message: "Deleted", Name: deleted.Name})
}
