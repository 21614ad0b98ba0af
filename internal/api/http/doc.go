// Package http is the JSON API over the conversion engine.
//
// Routes:
//   - GET  /health           liveness and engine settings
//   - GET  /api/v1/types     the vector catalog with triad links
//   - POST /api/v1/convert   convert a position, velocity or acceleration
//   - POST /api/v1/jacobian  per-element Jacobians of a position map
//
// Engine errors map to 422 (domain, unit, shape and missing components),
// 400 (no conversion path, malformed documents) and 409 (a lossy conversion
// refused by policy).
package http
