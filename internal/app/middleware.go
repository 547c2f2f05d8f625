package app

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Tag every request with an id so concurrent availability queries and
	// booking transactions can be told apart in the logs.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestId := req.Header.Get("X-Request-Id")
			if requestId == "" {
				requestId = uuid.New().String()
			}
			w.Header().Set("X-Request-Id", requestId)

			log.WithFields(log.Fields{
				"requestId": requestId,
				"method":    req.Method,
				"path":      req.URL.Path,
			}).Debug("handling request")

			next.ServeHTTP(w, req)
		})
	})
}
