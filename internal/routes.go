package contact

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Routes returns the full handler chain for the API server.
//
//	GET  /health
//	POST /api/contact    {name, email, message, recaptchaToken?}
//	POST /api/feedback   {name?, message}
//	POST /api/subscribe  {email}
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, Result{Error: "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Result{Error: "Method not allowed"})
	})

	r.HandleFunc("/health", HandleHealth).Methods(http.MethodGet, http.MethodHead)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.rateLimit)
	api.HandleFunc("/contact", s.HandleContact).Methods(http.MethodPost)
	api.HandleFunc("/feedback", s.HandleFeedback).Methods(http.MethodPost)
	api.HandleFunc("/subscribe", s.HandleSubscribe).Methods(http.MethodPost)

	var h http.Handler = handlers.CORS(
		handlers.AllowedOrigins(s.cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
	)(r)
	h = RequestLogger(s.logger, SecurityHeaders(h))
	if s.cfg.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}
	return h
}
