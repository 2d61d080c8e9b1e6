// Package conversation holds the per-agent dialogue history: an ordered,
// append-only sequence of role-tagged messages. Each conversation is owned
// exclusively by one agent; cross-agent exchange happens by message
// passing, never by reading the counterpart's history.
package conversation

import (
	"errors"
	"sync"

	"FightBot/pkg/llm"
)

// ErrEmptyContent is returned when a message with no content is appended.
var ErrEmptyContent = errors.New("conversation: empty message content")

// Conversation is an append-only message history. The stored transcript
// grows monotonically for the life of the session; an optional rolling
// window bounds only what Snapshot exposes to the completion service.
type Conversation struct {
	mu       sync.RWMutex
	messages []llm.Message
	window   int // 0 = unbounded
}

// New creates an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// NewWithWindow creates a conversation whose Snapshot is capped to the
// leading system messages plus the most recent window non-system
// messages. Zero means unbounded.
func NewWithWindow(window int) *Conversation {
	return &Conversation{window: window}
}

// Append adds a message to the end of the history. There is no removal
// operation.
func (c *Conversation) Append(msg llm.Message) error {
	if msg.Content == "" {
		return ErrEmptyContent
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Snapshot returns a copy of the history as sent to the completion
// service. Mutating the returned slice does not affect the conversation.
// With a window configured, the seed system messages are always kept and
// only the tail of the dialogue follows them.
func (c *Conversation) Snapshot() []llm.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.window <= 0 {
		out := make([]llm.Message, len(c.messages))
		copy(out, c.messages)
		return out
	}

	// Leading system messages anchor the persona and never roll off.
	head := 0
	for head < len(c.messages) && c.messages[head].Role == llm.RoleSystem {
		head++
	}
	tailStart := head
	if rest := len(c.messages) - head; rest > c.window {
		tailStart = len(c.messages) - c.window
	}

	out := make([]llm.Message, 0, head+len(c.messages)-tailStart)
	out = append(out, c.messages[:head]...)
	out = append(out, c.messages[tailStart:]...)
	return out
}

// Last returns the most recent message and true, or a zero message and
// false when the conversation is empty.
func (c *Conversation) Last() (llm.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return llm.Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
