// Package services implements the business layer between the HTTP
// handlers (and the CLI) and the analysis packages.
//
// # Available Services
//
//	- AnalysisService: loads the orders and costs sources, aggregates them,
//	  projects revenue, generates insights and builds the report
//	- TipService: serves one optimization tip at a time
//	- HealthService: health, liveness and version information
//
// # Events
//
// AnalysisService publishes analysis:started, analysis:completed,
// analysis:failed and insights:fallback events through an EventPublisher,
// normally the websocket hub. A nil publisher is allowed.
//
// # Error Handling
//
// Services return internal/errors values that handlers turn into RFC 7807
// problem responses:
//
//	- ingestion errors for sources that cannot be parsed
//	- validation errors for unknown category strategies
//	- ErrNoSourceData when neither source yields a row
//	- analysis errors for unexpected failures, including recovered panics
//
// Remote insight failures never surface as errors; the report carries a
// warning and local insights instead.
package services
