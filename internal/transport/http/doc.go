// Package http implements the HTTP handlers of the dashboard API.
//
// Handlers stay thin: they parse and validate the request, call a service
// and render the result. Every error goes through errors.ErrorHandler so
// clients always receive RFC 7807 problem documents.
//
// # Endpoints
//
//	POST /api/analyze            multipart orders_file, costs_file, category_strategy
//	POST /api/analyze/export     same form; ?format=xlsx|csv&table=<name>
//	POST /api/insights/tip       JSON {revenue, costs, margin, sales_count}
//	GET  /api/categories         category set, inference labels, strategies
//	POST /api/logs               dashboard-side log entries
//	GET  /api/health             component health
//	GET  /api/health/live        liveness
//	GET  /api/version            build information
//	GET  /ws                     analysis event stream
//
// Amounts in JSON responses are decimal strings with two places. The
// summary also carries dollar-formatted display strings for the cards.
package http
