package core

// Reply is a single outbound text message addressed to the conversation that
// produced the current turn. Replies are emitted through the transport
// adapter; this module never frames them into a synchronous HTTP response.
type Reply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewReply constructs a reply with a fresh identifier.
func NewReply(text string) Reply {
	return Reply{ID: NewID(), Text: text}
}

// ReplySender delivers one outbound reply. Implementations belong to the
// transport adapter; tests use an in-memory capture. A send failure must not
// abort the turn; the router logs and swallows it.
type ReplySender interface {
	Send(turn Turn, reply Reply) error
}

// ReplySenderFunc adapts a plain function to the ReplySender interface.
type ReplySenderFunc func(turn Turn, reply Reply) error

// Send implements ReplySender.
func (f ReplySenderFunc) Send(turn Turn, reply Reply) error { return f(turn, reply) }
