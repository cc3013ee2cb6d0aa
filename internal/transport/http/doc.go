// Package http implements the HTTP handlers of the bid comparison service.
// Handlers stay thin: they parse the request, call a service and render the
// response. Errors are rendered as RFC 7807 problem details through
// errors.ErrorHandler.
//
// # Endpoints
//
//	POST /api/bid-compare   multipart upload, field "files"
//	GET  /health            {"status":"healthy"}
//	GET  /api/health        detailed health
//	GET  /api/health/ready  readiness, 503 when a check fails
//	GET  /api/health/live   liveness
//	GET  /api/version       build information
//	GET  /metrics           Prometheus exposition
//
// # Testing
//
// Handlers are tested with httptest against mocked services.
package http
