// Package rtmlink maintains one persistent full-duplex streaming connection
// to a real-time event service and delivers structured events as they
// arrive.
//
// A Client runs a strict lifecycle of stopped → starting → started →
// stopping → stopped. Connect performs the websocket handshake against an
// endpoint URL (obtained out of band, see package gateway) and starts a
// single background receive loop. The loop reassembles multi-frame
// payloads into logical messages, classifies each one by its top-level
// "type" discriminator and dispatches to registered subscribers in
// subscription order. Disconnect cancels the loop cooperatively and blocks
// until it has fully exited.
//
// One Client supports one connect/disconnect cycle at a time. There is no
// automatic reconnection: after the connection ends for any reason the
// Client returns to stopped and a new Connect is an explicit caller
// decision.
package rtmlink
