/*
Package monitoring provides Prometheus metrics for the conversion engine and
its HTTP surface.

# Overview

Metrics implements convert.Observer, so the converter reports conversions by
kind and resolution tier, lossy warnings and Jacobian evaluations directly.
The Gin middleware adds request counts, latency and request size.

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	conv := convert.New(convert.WithObserver(metrics))

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
