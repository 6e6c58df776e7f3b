package api

import (
	"github.com/gorilla/mux"
	"github.com/imagemodify/imagemodify/internal/user"
)

// SetupRoutes wires the backend API. Auth endpoints are public; user and
// automation endpoints require a bearer token.
func SetupRoutes(h *Handler, verifier TokenVerifier, repo user.Repository, corsAllowedOrigin string) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(corsAllowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/auth/signup", h.Signup).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/google", h.GoogleLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", h.GoogleCallback).Methods("GET")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(RequireAuth(verifier, repo))

	authed.HandleFunc("/user/api-key", h.GetAPIKey).Methods("GET")
	authed.HandleFunc("/user/api-key/regenerate", h.RegenerateAPIKey).Methods("POST")
	authed.HandleFunc("/user/usage", h.GetUsage).Methods("GET")
	authed.HandleFunc("/user/profile", h.GetProfile).Methods("GET")
	authed.HandleFunc("/automation/run", h.RunAutomation).Methods("POST")
	authed.HandleFunc("/automation/run-dynamic", h.RunAutomationDynamic).Methods("POST")

	return r
}
