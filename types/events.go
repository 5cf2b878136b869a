package types

// HelloEvent is sent by the service once the streaming connection is ready.
// It carries no additional fields.
type HelloEvent struct {
	Type string `json:"type"`
}

// MessageEvent is a chat message posted to a channel.
type MessageEvent struct {
	Type     string `json:"type"`
	Channel  string `json:"channel"`
	User     string `json:"user,omitempty"`
	Text     string `json:"text,omitempty"`
	ThreadTS string `json:"thread_ts,omitempty"`
	TS       string `json:"ts"`
}

// ReactionItem identifies what a reaction was attached to. Type is one of
// "message", "file" or "file_comment"; the remaining fields apply per type.
type ReactionItem struct {
	Type        string `json:"type"`
	Channel     string `json:"channel,omitempty"`
	TS          string `json:"ts,omitempty"`
	File        string `json:"file,omitempty"`
	FileComment string `json:"file_comment,omitempty"`
}

// ReactionAddedEvent reports an emoji reaction added to an item.
type ReactionAddedEvent struct {
	Type     string       `json:"type"`
	User     string       `json:"user"`
	Reaction string       `json:"reaction"`
	Item     ReactionItem `json:"item"`
	EventTS  string       `json:"event_ts,omitempty"`
}

// RawMessage is the catch-all notification emitted for every complete
// logical message before any typed dispatch, regardless of whether the
// type was recognized.
type RawMessage struct {
	// Type is the extracted discriminator, empty when none was found.
	Type string
	// Payload is the full message text as received.
	Payload string
}

// ParseErrorEvent is emitted when a recognized message type fails to
// deserialize. The receive loop continues after emitting it.
type ParseErrorEvent struct {
	Kind    string
	Payload string
	Err     error
}

// CloseReason classifies why a streaming connection ended.
type CloseReason string

const (
	// CloseReasonRemote means the remote peer sent an orderly close.
	CloseReasonRemote CloseReason = "remote_close"
	// CloseReasonUserRequest means Disconnect was called locally.
	CloseReasonUserRequest CloseReason = "user_request"
	// CloseReasonFault means the transport failed while the connection was open.
	CloseReasonFault CloseReason = "fault"
)

// CloseEvent is produced exactly once per connection lifecycle, at receive
// loop exit. Cause is non-nil only for CloseReasonFault.
type CloseEvent struct {
	Reason CloseReason
	Cause  error
}
