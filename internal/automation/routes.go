package automation

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const apiKeyHeader = "x-api-key"

// Paths that bypass the shared-secret check.
var openPaths = map[string]struct{}{
	"/health": {},
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf(
			"%s %s %s",
			r.Method,
			r.RequestURI,
			time.Since(start),
		)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// KeyMiddleware validates the x-api-key header against the shared secret
// on everything except the open paths and the served image files.
func KeyMiddleware(apiKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, open := openPaths[r.URL.Path]; open {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				http.Error(w, unauthorizedMessage, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetupRoutes wires the automation endpoints and the read-only image file
// server.
func SetupRoutes(h *Handler, apiKey, imagesDir string) *mux.Router {
	r := mux.NewRouter()

	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// Composed images are public; their URLs are written back into the
	// sheet for anyone with view access.
	r.PathPrefix("/images/").Handler(
		http.StripPrefix("/images/", http.FileServer(http.Dir(imagesDir))))

	api := r.PathPrefix("/").Subrouter()
	api.Use(KeyMiddleware(apiKey))

	api.HandleFunc("/run", h.Run).Methods("POST")
	api.HandleFunc("/run-dynamic", h.RunDynamic).Methods("POST")
	api.HandleFunc("/health", h.Health).Methods("GET")

	return r
}
