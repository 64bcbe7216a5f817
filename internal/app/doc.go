// Package app wires the EDA web service together and manages its lifecycle.
//
// NewApplication resolves the path layout, initializes OpenTelemetry,
// registers the pipeline metrics and builds the chi router. Run starts the
// HTTP server and blocks until SIGINT or SIGTERM, then shuts down gracefully:
// in-flight requests are drained within Server.ShutdownTimeout and the
// telemetry providers are flushed.
//
// The package never calls os.Exit; errors are returned to main.
package app
