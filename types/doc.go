// Package types defines the event payloads delivered by the streaming
// client and the structured error taxonomy shared across the module.
package types
