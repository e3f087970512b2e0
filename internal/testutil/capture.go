package testutil

import (
	"sync"

	"github.com/hupe1980/turngate/core"
)

// CaptureSender records every reply it receives. Safe for concurrent use.
// FailWith can be set to simulate a channel that rejects outbound messages.
type CaptureSender struct {
	mu       sync.Mutex
	replies  []core.Reply
	FailWith error
}

// Send implements core.ReplySender.
func (c *CaptureSender) Send(_ core.Turn, reply core.Reply) error {
	if c.FailWith != nil {
		return c.FailWith
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, reply)
	return nil
}

// Replies returns a copy of the captured replies in send order.
func (c *CaptureSender) Replies() []core.Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Reply, len(c.replies))
	copy(out, c.replies)
	return out
}

// Texts returns just the reply texts in send order.
func (c *CaptureSender) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.replies))
	for _, r := range c.replies {
		out = append(out, r.Text)
	}
	return out
}

// Reset discards all captured replies.
func (c *CaptureSender) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = nil
}
