// Package http implements the HTTP handlers of the EDA web service.
// Handlers stay thin: they parse the request, hand the work to the
// operations pipeline and render the result with go-chi/render.
//
// Routes:
//
//	GET  /api/health                 service status, version and uptime
//	POST /api/v1/datasets/clean      clean an uploaded CSV (text/csv body or multipart "file")
//	POST /api/v1/datasets/profile    column kind counts of an uploaded CSV
//	GET  /metrics                    Prometheus scrape endpoint
//
// Errors are rendered as errors.ErrorResponse with the status code taken
// from the error type.
package http
