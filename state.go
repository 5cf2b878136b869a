package rtmlink

// State represents the lifecycle state of a Client connection.
type State string

const (
	// StateStopped is the initial and terminal state. Connect is only
	// accepted here, and transport properties may only be mutated here.
	StateStopped State = "stopped"
	// StateStarting covers the websocket handshake.
	StateStarting State = "starting"
	// StateStarted means the receive loop is running.
	StateStarted State = "started"
	// StateStopping means Disconnect claimed the connection and is waiting
	// for the receive loop to exit.
	StateStopping State = "stopping"
)
