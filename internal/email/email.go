// Package email defines the outbound-email port and its SMTP implementation.
//
// The core only ever sees the Sender interface: one call, one message, an
// error or nil. Delivery guarantees, retries, and queueing are explicitly out
// of scope — if the transport fails, the caller reports a plain failure.
package email

import "context"

// Message is the payload handed to the email collaborator.
// Text and HTML are alternative renderings of the same content; capable
// clients display HTML, the rest fall back to Text.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Sender submits one message to the outbound email transport.
//
// Implementations must be safe for concurrent use — every HTTP request that
// triggers a send calls this directly.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
