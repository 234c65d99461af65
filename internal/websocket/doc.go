// Package websocket pushes analysis lifecycle events to connected
// dashboards. A single Hub goroutine owns the client set; each Client runs
// a read pump and a write pump over its own connection.
package websocket
