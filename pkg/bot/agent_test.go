package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FightBot/pkg/conversation"
	"FightBot/pkg/llm"
	"FightBot/pkg/logger"
	"FightBot/pkg/persona"
	"FightBot/pkg/recorder"
)

// stubCompleter scripts replies and records every call.
type stubCompleter struct {
	calls   int
	failAt  int // 1-based call number that fails; 0 = never
	history []llm.Message
	input   string
}

func (s *stubCompleter) Complete(_ context.Context, history []llm.Message, input string) (llm.Message, error) {
	s.calls++
	s.history = history
	s.input = input
	if s.failAt > 0 && s.calls >= s.failAt {
		return llm.Message{}, &llm.TransportError{StatusCode: 503, Body: "unavailable"}
	}
	return llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("reply-%d", s.calls)}, nil
}

// memorySink collects writes in memory.
type memorySink struct {
	writes []string
}

func (m *memorySink) Write(text string) error {
	m.writes = append(m.writes, text)
	return nil
}

func newTestAgent(t *testing.T, completer Completer, sink recorder.Sink) *Agent {
	t.Helper()
	a := NewAgent("Pro", conversation.New(), completer, sink, logger.NewNop())
	require.NoError(t, a.Initialize(llm.Message{Role: llm.RoleSystem, Content: "be persuasive"}))
	return a
}

func TestInitializeExactlyOnce(t *testing.T) {
	a := NewAgent("Pro", conversation.New(), &stubCompleter{}, nil, logger.NewNop())
	require.NoError(t, a.Initialize(llm.Message{Role: llm.RoleSystem, Content: "seed"}))
	assert.ErrorIs(t, a.Initialize(llm.Message{Role: llm.RoleSystem, Content: "again"}), ErrAlreadyInitialized)
}

func TestProduceNextRequiresInitialize(t *testing.T) {
	a := NewAgent("Pro", conversation.New(), &stubCompleter{}, nil, logger.NewNop())
	_, err := a.ProduceNext(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestProduceNextAppendsUserAndAssistant(t *testing.T) {
	stub := &stubCompleter{}
	sink := &memorySink{}
	a := newTestAgent(t, stub, sink)

	out, err := a.ProduceNext(context.Background(), "your move")
	require.NoError(t, err)
	assert.Equal(t, "reply-1", out)

	// History passed to the adapter excludes the pending input itself.
	require.Len(t, stub.history, 1)
	assert.Equal(t, llm.RoleSystem, stub.history[0].Role)
	assert.Equal(t, "your move", stub.input)

	snap := a.Conversation().Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, llm.RoleUser, snap[1].Role)
	assert.Equal(t, "your move", snap[1].Content)
	assert.Equal(t, llm.RoleAssistant, snap[2].Role)

	require.Len(t, sink.writes, 1)
	assert.Equal(t, "reply-1\n", sink.writes[0])
}

func TestProduceNextFailureLeavesPendingUserMessage(t *testing.T) {
	stub := &stubCompleter{failAt: 1}
	sink := &memorySink{}
	a := newTestAgent(t, stub, sink)

	before := a.Conversation().Len()
	_, err := a.ProduceNext(context.Background(), "doomed turn")
	require.Error(t, err)
	assert.True(t, llm.IsTransportError(err), "adapter error propagates unchanged")

	// Pending-turn consistency: user message appended, no assistant reply.
	require.Equal(t, before+1, a.Conversation().Len())
	last, ok := a.Conversation().Last()
	require.True(t, ok)
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Empty(t, sink.writes, "nothing is recorded on failure")

	// A retried turn does not duplicate the pending user message in what
	// the adapter sees: the history it gets is the pre-failure snapshot
	// plus that single pending message.
	stub.failAt = 0
	out, err := a.ProduceNext(context.Background(), "doomed turn")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	// Exactly one user message and one assistant reply for the turn.
	assert.Equal(t, before+2, a.Conversation().Len())
	for _, msg := range stub.history {
		assert.NotEqual(t, "doomed turn", msg.Content, "pending message must not also appear in history")
	}
}

const factoryCatalog = `{
  "personalities": {
    "logical": {"name": "Logical", "description": "d", "system_prompt": "Argue with logic."}
  },
  "debate_styles": {
    "casual": {"opening_prompt": "Open.", "format": "Short answers."}
  }
}`

func newTestFactory(t *testing.T, completer Completer) *Factory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personalities.json")
	require.NoError(t, os.WriteFile(path, []byte(factoryCatalog), 0644))
	catalog, err := persona.Load(path, logger.NewNop())
	require.NoError(t, err)
	return NewFactory(catalog, completer, nil, 0, logger.NewNop())
}

func TestFactoryCreateBot(t *testing.T) {
	f := newTestFactory(t, &stubCompleter{})

	agent, err := f.CreateBot(Spec{
		Name: "Pro", Topic: "AI regulation", Position: "it should be regulated",
		PersonalityID: "logical", StyleID: "casual",
	})
	require.NoError(t, err)

	snap := agent.Conversation().Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, llm.RoleSystem, snap[0].Role)
	assert.Contains(t, snap[0].Content, "Argue with logic.")
	assert.Contains(t, snap[0].Content, "The topic is: AI regulation.")
	assert.Contains(t, snap[0].Content, "You support the position that it should be regulated.")
	assert.Contains(t, snap[0].Content, "Short answers.")
}

func TestFactoryUnknownIDsFailBeforeAnyNetworkCall(t *testing.T) {
	stub := &stubCompleter{}
	f := newTestFactory(t, stub)

	_, err := f.CreateBot(Spec{Name: "Pro", Topic: "t", Position: "p", PersonalityID: "sarcastic", StyleID: "casual"})
	var unknownErr *persona.UnknownIDError
	require.ErrorAs(t, err, &unknownErr)

	_, err = f.CreateBot(Spec{Name: "Pro", Topic: "t", Position: "p", PersonalityID: "logical", StyleID: "town_hall"})
	require.ErrorAs(t, err, &unknownErr)

	assert.Equal(t, 0, stub.calls, "configuration errors must precede any completion call")
}

func TestFactoryCreatePair(t *testing.T) {
	f := newTestFactory(t, &stubCompleter{})

	a, b, err := f.CreatePair(
		Spec{Name: "Pro", Topic: "t", Position: "yes", PersonalityID: "logical", StyleID: "casual"},
		Spec{Name: "Con", Topic: "t", Position: "no", PersonalityID: "logical", StyleID: "casual"},
	)
	require.NoError(t, err)
	assert.Equal(t, "Pro", a.Name())
	assert.Equal(t, "Con", b.Name())

	// Each agent owns its conversation exclusively.
	require.NoError(t, a.Conversation().Append(llm.Message{Role: llm.RoleUser, Content: "x"}))
	assert.Equal(t, 1, b.Conversation().Len())
}

func TestFactoryOpeningPrompt(t *testing.T) {
	f := newTestFactory(t, &stubCompleter{})
	assert.Equal(t, "Open.", f.OpeningPrompt("casual"))
}
