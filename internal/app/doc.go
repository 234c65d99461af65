// Package app wires the ProfitPilot server together: configuration,
// logging, OpenTelemetry, the websocket hub, the analysis pipeline and
// the chi router.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, an optional YAML file and PROFITPILOT_* variables
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Start the websocket hub
//	4. Build the analysis pipeline (insight providers, keyword rules, metrics)
//	5. Mount middleware and API routes
//	6. Create the HTTP server
//
// NewPipeline is shared with cmd/analyze so the CLI runs the same
// analysis the server does, without the hub.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests,
// stops the hub and flushes telemetry.
package app
