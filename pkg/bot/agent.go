// Package bot provides the debate agent: an identity wrapped around an
// append-only conversation, producing one reply per turn through the
// completion client.
package bot

import (
	"context"
	"errors"
	"fmt"

	"FightBot/pkg/conversation"
	"FightBot/pkg/llm"
	"FightBot/pkg/logger"
	"FightBot/pkg/recorder"
	"FightBot/pkg/utils"
)

// Completer turns a conversation snapshot plus one new input into the next
// assistant message. Implemented by *llm.Client; stubbed in tests.
type Completer interface {
	Complete(ctx context.Context, history []llm.Message, input string) (llm.Message, error)
}

// ErrAlreadyInitialized is returned when Initialize is called twice.
var ErrAlreadyInitialized = errors.New("bot: agent already initialized")

// ErrNotInitialized is returned when ProduceNext runs before Initialize.
var ErrNotInitialized = errors.New("bot: agent not initialized")

// Agent is one debate participant. It exclusively owns its conversation;
// the counterpart's words only ever arrive as ProduceNext input.
type Agent struct {
	name        string
	conv        *conversation.Conversation
	sink        recorder.Sink
	completer   Completer
	log         *logger.Logger
	initialized bool
}

// NewAgent creates an agent. sink may be nil when no per-agent response
// file is wanted.
func NewAgent(name string, conv *conversation.Conversation, completer Completer, sink recorder.Sink, log *logger.Logger) *Agent {
	return &Agent{
		name:      name,
		conv:      conv,
		sink:      sink,
		completer: completer,
		log:       log.Named(name),
	}
}

// Name returns the agent's identity.
func (a *Agent) Name() string { return a.name }

// Conversation exposes the agent's history for inspection and tests.
func (a *Agent) Conversation() *conversation.Conversation { return a.conv }

// Initialize appends the seed messages (typically one system message
// assembled by the factory). Must be called exactly once, before the
// first turn.
func (a *Agent) Initialize(seed ...llm.Message) error {
	if a.initialized {
		return ErrAlreadyInitialized
	}
	for _, msg := range seed {
		if err := a.conv.Append(msg); err != nil {
			return fmt.Errorf("seed agent %s: %w", a.name, err)
		}
	}
	a.initialized = true
	return nil
}

// ProduceNext appends input as a user message, asks the completion service
// for the next reply against the full history, appends the reply, writes
// it to the sink, and returns its content.
//
// On failure the user message stays appended and nothing else changes, so
// a retried call re-sends the same pending turn without duplicating it.
func (a *Agent) ProduceNext(ctx context.Context, input string) (string, error) {
	if !a.initialized {
		return "", ErrNotInitialized
	}

	history := a.conv.Snapshot()
	if last, ok := a.conv.Last(); ok && last.Role == llm.RoleUser && last.Content == input {
		// Retried pending turn: the user message from the failed attempt is
		// already appended, so keep it out of the history sent alongside input.
		history = history[:len(history)-1]
	} else if err := a.conv.Append(llm.Message{Role: llm.RoleUser, Content: input}); err != nil {
		return "", err
	}

	reply, err := a.completer.Complete(ctx, history, input)
	if err != nil {
		return "", err
	}

	if err := a.conv.Append(reply); err != nil {
		return "", fmt.Errorf("append reply for %s: %w", a.name, err)
	}

	if a.sink != nil {
		if err := a.sink.Write(reply.Content + "\n"); err != nil {
			a.log.Warnf("response sink write failed: %v", err)
		}
	}

	a.log.Infof("produced reply (%d messages): %s",
		a.conv.Len(), utils.Truncate(reply.Content, 120))
	return reply.Content, nil
}
