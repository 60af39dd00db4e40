package handlers

import (
	"net/http"

	"github.com/rs/cors"
)

var corsHandler = cors.New(cors.Options{
	AllowedMethods: []string{http.MethodGet, http.MethodHead},
})

// CorsHandler allows cross-origin reads of artifacts unless disabled
func CorsHandler(disabled bool, handler http.Handler) http.Handler {
	if !disabled {
		handler = corsHandler.Handler(handler)
	}
	return handler
}
