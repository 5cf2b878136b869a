// Package testutil provides shared test helpers: bounded test contexts
// and a scripted fake event-service websocket server.
package testutil
