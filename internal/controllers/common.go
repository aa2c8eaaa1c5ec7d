package controllers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/090809/apartments-web/internal/propertyapi/constants"
	apiModels "github.com/090809/apartments-web/internal/propertyapi/models"
	"github.com/090809/apartments-web/pkg/auth"
)

// PropertyAPI is the part of the remote API the views use.
type PropertyAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListApartments(ctx context.Context) ([]apiModels.Apartment, error)
}

type Handler struct {
	Logger     *slog.Logger
	api        PropertyAPI
	tokenStore auth.TokenStore

	TemplateFs fs.FS
}

func NewHandlers(templateFs fs.FS, tokenStore auth.TokenStore, api PropertyAPI) (h *Handler) {
	h = &Handler{
		TemplateFs: templateFs,
		Logger:     slog.Default(),
		tokenStore: tokenStore,
		api:        api,
	}

	return h
}

// renderTemplate executes into a buffer first so a failing template never leaves a half-written page.
func (h *Handler) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) error {
	templateFile := fmt.Sprintf("templates/%s.html.tmpl", templateName)
	tmpl, err := fs.ReadFile(h.TemplateFs, templateFile)
	if err != nil {
		return fmt.Errorf("readfile %s: %w", templateFile, err)
	}

	t, err := template.New(templateName).Funcs(getTemplateFunctions()).Parse(string(tmpl))
	if err != nil {
		return fmt.Errorf("parse %s error: %w", templateFile, err)
	}

	var buf bytes.Buffer
	if err = t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s error: %w", templateFile, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}

func (h *Handler) render(w http.ResponseWriter, templateName string, data interface{}) {
	if err := h.renderTemplate(w, templateName, data); err != nil {
		h.Logger.With("err", err.Error()).With("template", templateName).Error("render failed")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func getTemplateFunctions() template.FuncMap {
	return template.FuncMap{
		"formatPrice": FormatPrice,
		"websiteURL": func(website string) string {
			return constants.WebsiteScheme + website
		},
		"countField": func(baseURL, icon, label string, value int) countField {
			return countField{BaseURL: baseURL, Icon: icon, Label: label, Value: value}
		},
	}
}

// countField feeds the "count" sub-template: one labeled number with its icon.
type countField struct {
	BaseURL string
	Icon    string
	Label   string
	Value   int
}

// determineBaseURL returns the path prefix the app is mounted under when served behind a proxy.
func (h *Handler) determineBaseURL(r *http.Request) string {
	prefix := strings.TrimRight(r.Header.Get("X-Forwarded-Prefix"), "/")
	if prefix != "" && (!strings.HasPrefix(prefix, "/") || strings.HasPrefix(prefix, "//")) {
		h.Logger.With("prefix", prefix).Warn("ignoring X-Forwarded-Prefix that is not an absolute path")
		return ""
	}
	return prefix
}

// navigate is the server-side counterpart of a client-side route change.
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, h.determineBaseURL(r)+path, http.StatusSeeOther)
}
