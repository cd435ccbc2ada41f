/*
Package monitoring provides metrics collection for the desktop server.

# Overview

This package implements Prometheus-based metrics collection, tracking HTTP
requests, dispatched desktop actions, session collection sizes, persistence
outcomes, AI backend calls, terminal commands and WebSocket traffic.

Collectors are registered with an injected prometheus.Registerer, so tests
and embedded servers can each use their own registry.

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record session metrics
	metrics.RecordAction("OPEN", true)
	metrics.SetSessionGauges(3, 10, 1, 20)

	// Time AI calls
	timer := monitoring.NewTimer(metrics, "wallpaper")
	// ... perform call ...
	timer.Stop(err)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
