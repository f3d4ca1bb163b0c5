package ledger

import (
	"fmt"

	"github.com/mcoot/wordrush/internal/model"
)

// Ledger is the ordered list of outcomes for one turn.
// Derived values are always computed from the list, never cached.
type Ledger struct {
	outcomes []model.TurnOutcome
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{}
}

// Append records an outcome
func (l *Ledger) Append(o model.TurnOutcome) {
	l.outcomes = append(l.outcomes, o)
}

// Len returns the number of recorded outcomes
func (l *Ledger) Len() int {
	return len(l.outcomes)
}

// Outcomes returns a copy of the recorded outcomes
func (l *Ledger) Outcomes() []model.TurnOutcome {
	return model.CloneOutcomes(l.outcomes)
}

// NetDelta returns #correct - #skipped*penaltyPerSkip
func (l *Ledger) NetDelta(penaltyPerSkip int) int {
	delta := 0
	for _, o := range l.outcomes {
		delta += o.Contribution(penaltyPerSkip)
	}
	return delta
}

// CorrectCount returns the number of correct outcomes
func (l *Ledger) CorrectCount() int {
	n := 0
	for _, o := range l.outcomes {
		if o.Correct {
			n++
		}
	}
	return n
}

// Override marks the outcome at index as fully correct or fully skipped.
// A pending outcome cannot be restored to pending.
func (l *Ledger) Override(index int, correct bool) error {
	if index < 0 || index >= len(l.outcomes) {
		return fmt.Errorf("%w: index %d, turn has %d outcomes", model.ErrOutcomeOutOfRange, index, len(l.outcomes))
	}
	l.outcomes[index].Correct = correct
	l.outcomes[index].Skipped = !correct
	return nil
}
