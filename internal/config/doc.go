// Package config provides 12-factor configuration for the conversion
// server and CLI.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - Engine: batch fan-out and the lossy conversion policy
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	conv := convert.New(cfg.Engine.Options()...)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - COORD_WORKERS, COORD_PARALLEL_THRESHOLD, COORD_LOSSY_POLICY
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
