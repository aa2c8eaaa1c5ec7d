package controllers

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// NewRouter maps "/" to the login view and "/apartments" to the listing.
// The listing is deliberately not guarded here; the view handles a missing token itself.
func NewRouter(h *Handler, staticFs fs.FS) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.LoginPageHandler)
	mux.HandleFunc("POST /{$}", h.LoginSubmitHandler)
	mux.HandleFunc("GET /apartments", h.ApartmentsHandler)
	mux.Handle("GET /static/", http.FileServerFS(staticFs))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return h.requestLogger(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(recorder, r)

		h.Logger.With("request_id", requestID).
			With("method", r.Method).
			With("path", r.URL.Path).
			With("status", recorder.status).
			With("duration", time.Since(started)).
			Debug("handled request")
	})
}
