// Package debate drives the turn-taking engine: it alternates two agents,
// feeding each one's output to the other, under strict ordering, pacing,
// round limits, and failure containment.
package debate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"FightBot/pkg/bot"
	"FightBot/pkg/logger"
)

// Status is the session state. Interrupted and Errored are absorbing exits
// from any running state.
type Status string

const (
	StatusNotStarted  Status = "not_started"
	StatusOpening     Status = "opening"
	StatusAlternating Status = "alternating"
	StatusCompleted   Status = "completed"
	StatusInterrupted Status = "interrupted"
	StatusErrored     Status = "errored"
)

// Turn is one entry of the session-wide transcript, independent of either
// agent's in-memory conversation. Round 0 is the opening statement.
type Turn struct {
	Round     int
	Speaker   string
	Content   string
	Timestamp time.Time
}

// Result reports how a session ended: the terminal status, the last
// completed round, the full transcript, and where it was persisted.
type Result struct {
	SessionID      string
	Status         Status
	Rounds         int
	Turns          []Turn
	TranscriptPath string
	Err            error
}

// TurnRecorder persists each turn before the loop proceeds. Implemented by
// *recorder.Recorder.
type TurnRecorder interface {
	Record(round int, speaker, content string) error
	Path() string
}

// Observer is called synchronously for every completed turn. The CLI uses
// it to render the exchange as it happens.
type Observer func(Turn)

// Session orchestrates one debate between two agents.
type Session struct {
	id            string
	agentA        *bot.Agent
	agentB        *bot.Agent
	openingPrompt string
	maxRounds     int // 0 = unbounded
	pacing        time.Duration
	rec           TurnRecorder
	observer      Observer
	log           *logger.Logger

	mu     sync.Mutex
	status Status
	rounds int
	turns  []Turn
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxRounds bounds the debate. Zero keeps it unbounded: the loop then
// only exits via cancellation or error.
func WithMaxRounds(n int) SessionOption {
	return func(s *Session) { s.maxRounds = n }
}

// WithPacing sets the delay observed between turns, protecting upstream
// rate limits. Default one second.
func WithPacing(d time.Duration) SessionOption {
	return func(s *Session) { s.pacing = d }
}

// WithRecorder sets the durable transcript recorder.
func WithRecorder(rec TurnRecorder) SessionOption {
	return func(s *Session) { s.rec = rec }
}

// WithObserver sets the per-turn observer.
func WithObserver(obs Observer) SessionOption {
	return func(s *Session) { s.observer = obs }
}

// NewSession creates a debate session. agentB speaks first, replying to
// openingPrompt; agentA then replies to agentB, and the two alternate.
func NewSession(agentA, agentB *bot.Agent, openingPrompt string, log *logger.Logger, opts ...SessionOption) *Session {
	s := &Session{
		id:            uuid.NewString()[:8],
		agentA:        agentA,
		agentB:        agentB,
		openingPrompt: openingPrompt,
		pacing:        time.Second,
		status:        StatusNotStarted,
		log:           log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Rounds returns the number of fully completed rounds.
func (s *Session) Rounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// recordTurn appends to the session transcript and persists the turn.
// Persistence failure is fatal: the durability guarantee is that every
// prior turn is on disk before the next one starts.
func (s *Session) recordTurn(round int, speaker, content string) error {
	turn := Turn{Round: round, Speaker: speaker, Content: content, Timestamp: time.Now()}

	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()

	if s.rec != nil {
		if err := s.rec.Record(round, speaker, content); err != nil {
			return err
		}
	}
	if s.observer != nil {
		s.observer(turn)
	}
	return nil
}

// pace sleeps for the pacing delay, waking early on cancellation.
func (s *Session) pace(ctx context.Context) error {
	if s.pacing <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Run executes the debate to a terminal state. A single goroutine drives
// strict alternation; each call blocks for one full round-trip. Errors are
// fatal to the session; cancellation is a clean stop with partial results.
func (s *Session) Run(ctx context.Context) *Result {
	s.log.Infof("debate %s started: %s vs %s (max rounds: %d)",
		s.id, s.agentA.Name(), s.agentB.Name(), s.maxRounds)

	s.setStatus(StatusOpening)
	last, err := s.agentB.ProduceNext(ctx, s.openingPrompt)
	if err != nil {
		return s.finish(ctx, err)
	}
	if err := s.recordTurn(0, s.agentB.Name(), last); err != nil {
		return s.finish(ctx, err)
	}

	s.setStatus(StatusAlternating)
	for {
		s.mu.Lock()
		done := s.maxRounds > 0 && s.rounds >= s.maxRounds
		round := s.rounds + 1
		s.mu.Unlock()
		if done {
			s.setStatus(StatusCompleted)
			return s.finish(ctx, nil)
		}

		if err := s.pace(ctx); err != nil {
			return s.finish(ctx, err)
		}

		outA, err := s.agentA.ProduceNext(ctx, last)
		if err != nil {
			return s.finish(ctx, err)
		}
		if err := s.recordTurn(round, s.agentA.Name(), outA); err != nil {
			return s.finish(ctx, err)
		}

		if err := s.pace(ctx); err != nil {
			return s.finish(ctx, err)
		}

		last, err = s.agentB.ProduceNext(ctx, outA)
		if err != nil {
			return s.finish(ctx, err)
		}
		if err := s.recordTurn(round, s.agentB.Name(), last); err != nil {
			return s.finish(ctx, err)
		}

		// Both halves done: the round counts.
		s.mu.Lock()
		s.rounds++
		s.mu.Unlock()
	}
}

// finish resolves the terminal status and builds the result. Cancellation
// is a clean interruption, anything else during a running state is an
// error; a nil err means the round limit was reached.
func (s *Session) finish(ctx context.Context, err error) *Result {
	switch {
	case err == nil:
		// status already set to Completed
	case isCancellation(ctx, err):
		s.setStatus(StatusInterrupted)
		err = nil
		s.log.Infof("debate %s interrupted after %d completed rounds", s.id, s.Rounds())
	default:
		s.setStatus(StatusErrored)
		s.log.Errorf("debate %s stopped at round %d: %v", s.id, s.Rounds()+1, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)

	res := &Result{
		SessionID: s.id,
		Status:    s.status,
		Rounds:    s.rounds,
		Turns:     turns,
		Err:       err,
	}
	if s.rec != nil {
		res.TranscriptPath = s.rec.Path()
	}
	if s.status == StatusCompleted {
		s.log.Infof("debate %s completed: %d rounds, %d turns", s.id, s.rounds, len(turns))
	}
	return res
}
