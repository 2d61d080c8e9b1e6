package bot

import (
	"FightBot/pkg/conversation"
	"FightBot/pkg/llm"
	"FightBot/pkg/logger"
	"FightBot/pkg/persona"
	"FightBot/pkg/recorder"
)

// Spec describes one debater to build: who they are, what they argue, and
// which catalog templates shape their voice.
type Spec struct {
	Name          string
	Topic         string
	Position      string
	PersonalityID string
	StyleID       string
}

// Factory builds configured agents from the persona catalog. All
// identifier validation happens here, before any network call is made.
type Factory struct {
	catalog   *persona.Catalog
	completer Completer
	rec       *recorder.Recorder
	window    int // conversation window cap, 0 = unbounded
	log       *logger.Logger
}

// NewFactory creates a factory. rec may be nil when agents should not
// mirror replies to per-agent response files.
func NewFactory(catalog *persona.Catalog, completer Completer, rec *recorder.Recorder, window int, log *logger.Logger) *Factory {
	return &Factory{
		catalog:   catalog,
		completer: completer,
		rec:       rec,
		window:    window,
		log:       log,
	}
}

// CreateBot builds and seeds one agent. Unknown personality or style
// identifiers fail here as configuration errors.
func (f *Factory) CreateBot(spec Spec) (*Agent, error) {
	systemPrompt, err := f.catalog.BuildSystemPrompt(spec.PersonalityID, spec.Topic, spec.Position, spec.StyleID)
	if err != nil {
		return nil, err
	}

	var sink recorder.Sink
	if f.rec != nil {
		sink = f.rec.AgentSink(spec.Name)
	}

	agent := NewAgent(spec.Name, conversation.NewWithWindow(f.window), f.completer, sink, f.log)
	if err := agent.Initialize(llm.Message{Role: llm.RoleSystem, Content: systemPrompt}); err != nil {
		return nil, err
	}

	f.log.Infof("created bot %q with personality %q supporting %q",
		spec.Name, spec.PersonalityID, spec.Position)
	return agent, nil
}

// CreatePair builds both debaters for a session. Both specs are validated
// before either agent's first turn.
func (f *Factory) CreatePair(a, b Spec) (*Agent, *Agent, error) {
	agentA, err := f.CreateBot(a)
	if err != nil {
		return nil, nil, err
	}
	agentB, err := f.CreateBot(b)
	if err != nil {
		return nil, nil, err
	}
	return agentA, agentB, nil
}

// OpeningPrompt returns the opening prompt for the session's style.
func (f *Factory) OpeningPrompt(styleID string) string {
	return f.catalog.OpeningPrompt(styleID)
}
