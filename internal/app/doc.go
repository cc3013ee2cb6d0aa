// Package app wires the bid comparison server: configuration, logging,
// OpenTelemetry, services, the chi router and the HTTP server lifecycle.
//
// # Routes
//
//	GET  /health              liveness probe, {"status":"healthy"}
//	GET  /api/health          health status with version
//	GET  /api/health/ready    readiness, 503 while a check fails
//	GET  /api/health/live     liveness with runtime details
//	GET  /api/version         build information
//	POST /api/bid-compare     multipart upload, field "files"
//	GET  /metrics             Prometheus exposition
//
// # Middleware
//
// Every route runs RequestID, RealIP, OTel, StructuredLogger, Recoverer,
// SecurityHeaders and, when enabled, CORS. The /api subtree adds a request
// timeout; only the compare endpoint is rate limited.
//
// # Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// the configured shutdown timeout and flushes telemetry. Initialization
// errors are returned to the caller; the package never exits the process.
package app
