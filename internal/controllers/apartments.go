package controllers

import (
	"net/http"

	"github.com/090809/apartments-web/internal/models"
	"github.com/090809/apartments-web/internal/propertyapi"
	"github.com/090809/apartments-web/internal/propertyapi/constants"
)

// ApartmentsHandler fetches the listing once per page load.
//
// A missing token only shows a message, while a token the API rejects is dropped and the
// browser is sent back to the login form.
func (h *Handler) ApartmentsHandler(w http.ResponseWriter, r *http.Request) {
	data := models.ApartmentsPageData{
		BaseURL: h.determineBaseURL(r),
	}

	apartments, err := h.api.ListApartments(r.Context())
	if r.Context().Err() != nil {
		h.Logger.Debug("client went away during listing fetch")
		return
	}

	if err != nil {
		data.Error = listingErrorMessage(err)
		logger := h.Logger.With("err", err.Error()).With("kind", propertyapi.KindOf(err).String())

		if propertyapi.KindOf(err) == propertyapi.KindUnauthorized {
			logger.Warn(data.Error)
			if clearErr := h.tokenStore.ClearToken(); clearErr != nil {
				h.Logger.With("err", clearErr.Error()).Error("clear token")
			}
			h.navigate(w, r, "/?session="+constants.SessionExpiredFlag)
			return
		}

		logger.Warn("listing failed")
		h.render(w, "apartments", data)
		return
	}

	data.Apartments = apartments
	h.render(w, "apartments", data)
}
