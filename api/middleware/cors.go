package middleware

import (
	"github.com/rs/cors"
	"gopkg.in/macaron.v1"
)

// CorsHandler lets browser dashboards on other origins read the snapshot endpoint
func CorsHandler() macaron.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	})
	return c.HandlerFunc
}
