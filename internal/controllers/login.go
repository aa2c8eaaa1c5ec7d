package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/090809/apartments-web/internal/models"
	"github.com/090809/apartments-web/internal/propertyapi/constants"
)

func (h *Handler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	data := models.LoginPageData{
		BaseURL: h.determineBaseURL(r),
	}
	if r.URL.Query().Get("session") == constants.SessionExpiredFlag {
		data.LoginError = msgUnauthorized
	}

	h.render(w, "login", data)
}

// LoginSubmitHandler makes one login attempt per submit. On success the token is stored
// and the browser is sent to the listing; on any failure the form is shown again with a message.
func (h *Handler) LoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("ParseForm() err: %v", err), http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	data := models.LoginPageData{
		BaseURL: h.determineBaseURL(r),
		Email:   email,
	}

	if email == "" || password == "" {
		data.LoginError = msgCredentialsRequired
		h.render(w, "login", data)
		return
	}

	token, err := h.api.Login(r.Context(), email, password)
	if r.Context().Err() != nil {
		h.Logger.With("email", email).Debug("client went away during login")
		return
	}
	if err != nil {
		h.Logger.With("err", err.Error()).With("email", email).Warn("login failed")
		data.LoginError = loginErrorMessage(err)
		h.render(w, "login", data)
		return
	}

	if err := h.tokenStore.SaveToken(token); err != nil {
		h.Logger.With("err", err.Error()).Error("save token")
		data.LoginError = msgTokenNotStored
		h.render(w, "login", data)
		return
	}

	h.Logger.With("email", email).Info("logged in")
	h.navigate(w, r, "/apartments")
}
