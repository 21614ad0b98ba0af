// Package middleware holds the Gin middleware in front of the conversion
// API: request IDs, access logging, panic recovery, CORS and per-client
// rate limiting.
package middleware
