// Package main is the entry point for the vector conversion server.
//
// The server exposes the conversion engine over HTTP:
//
//	GET  /health            engine status
//	GET  /metrics           Prometheus metrics
//	GET  /api/v1/types      registered vector types
//	POST /api/v1/convert    position and differential conversion
//	POST /api/v1/jacobian   Jacobians of a position rule
//
// Configuration:
//   - Environment variables (PORT, LOG_LEVEL, COORD_WORKERS, COORD_LOSSY_POLICY, ...)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8000
//	./server -dev -log-level debug
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
