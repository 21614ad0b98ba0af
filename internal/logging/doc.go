// Package logging provides structured logging using uber/zap.
//
// Production loggers write JSON; development loggers write coloured console
// output at debug level. The conversion engine only ever sees a *zap.Logger:
// lossy conversions are reported at Warn, pivot resolutions and derivative
// fan-out at Debug.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	conv := convert.New(convert.WithLogger(logger.Converter()))
package logging
