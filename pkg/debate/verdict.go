package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"FightBot/pkg/utils"
)

// perTurnVerdictBudget caps how much of each turn is quoted to the judge,
// keeping the verdict prompt inside a single request.
const perTurnVerdictBudget = 600

// Querier answers one standalone prompt. Implemented by *llm.Client.
type Querier interface {
	SimpleQuery(ctx context.Context, prompt string) (string, error)
}

// Verdict asks the completion service for a short neutral assessment of a
// finished exchange. It is a convenience on top of the transcript; a
// failure here never affects the session outcome.
func (r *Result) Verdict(ctx context.Context, q Querier) (string, error) {
	if len(r.Turns) == 0 {
		return "", errors.New("debate: no turns to judge")
	}

	var b strings.Builder
	b.WriteString("You are a neutral debate judge. Below is the transcript of a debate. ")
	b.WriteString("Summarize each side's strongest argument in one sentence, then state ")
	b.WriteString("which side argued more convincingly and why, in at most three sentences.\n\n")
	for _, turn := range r.Turns {
		fmt.Fprintf(&b, "%s: %s\n\n", turn.Speaker, utils.Truncate(turn.Content, perTurnVerdictBudget))
	}

	verdict, err := q.SimpleQuery(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("debate verdict: %w", err)
	}
	return strings.TrimSpace(verdict), nil
}
