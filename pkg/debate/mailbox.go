package debate

import (
	"context"
)

// turnReply is what a worker posts back after producing one message.
type turnReply struct {
	content string
	err     error
}

// mailbox is a worker-owned inbox. Capacity one: the scheduler never has
// more than a single outstanding request per agent, so a worker cannot run
// ahead of the exchange.
type mailbox struct {
	in  chan string
	out chan turnReply
}

func newMailbox() *mailbox {
	return &mailbox{
		in:  make(chan string, 1),
		out: make(chan turnReply, 1),
	}
}

// producer is the slice of an agent the mailbox worker needs.
type producer interface {
	ProduceNext(ctx context.Context, input string) (string, error)
	Name() string
}

// worker runs one agent as an independent goroutine: consume exactly one
// input, reply exactly once, block for the next. It exits when the inbox
// closes or the context is cancelled.
func (s *Session) worker(ctx context.Context, agent producer, box *mailbox) {
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-box.in:
			if !ok {
				return
			}
			content, err := agent.ProduceNext(ctx, input)
			select {
			case box.out <- turnReply{content: content, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// ask posts input to a worker's inbox and blocks for its single reply.
func (s *Session) ask(ctx context.Context, box *mailbox, input string) (string, error) {
	select {
	case box.in <- input:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case reply := <-box.out:
		return reply.content, reply.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// RunMailbox executes the debate with each agent as an independent worker
// behind a bounded mailbox instead of direct calls. Ordering is identical
// to Run: the scheduler only posts the next input after consuming the
// previous reply, so strict alternation and the single-outstanding-request
// discipline hold by construction.
func (s *Session) RunMailbox(ctx context.Context) *Result {
	s.log.Infof("debate %s started in mailbox mode: %s vs %s",
		s.id, s.agentA.Name(), s.agentB.Name())

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	boxA, boxB := newMailbox(), newMailbox()
	go s.worker(workerCtx, s.agentA, boxA)
	go s.worker(workerCtx, s.agentB, boxB)

	s.setStatus(StatusOpening)
	last, err := s.ask(ctx, boxB, s.openingPrompt)
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

		outA, err := s.ask(ctx, boxA, last)
		if err != nil {
			return s.finish(ctx, err)
		}
		if err := s.recordTurn(round, s.agentA.Name(), outA); err != nil {
			return s.finish(ctx, err)
		}

		if err := s.pace(ctx); err != nil {
			return s.finish(ctx, err)
		}

		last, err = s.ask(ctx, boxB, outA)
		if err != nil {
			return s.finish(ctx, err)
		}
		if err := s.recordTurn(round, s.agentB.Name(), last); err != nil {
			return s.finish(ctx, err)
		}

		s.mu.Lock()
		s.rounds++
		s.mu.Unlock()
	}
}
