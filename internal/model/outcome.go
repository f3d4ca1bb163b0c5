package model

import "time"

// TurnOutcome records what happened to one word during a turn.
// A word that timed out unresolved has neither flag set.
type TurnOutcome struct {
	Word      string
	Correct   bool
	Skipped   bool
	Timestamp time.Time
}

// Pending returns true if the word was never resolved
func (o TurnOutcome) Pending() bool {
	return !o.Correct && !o.Skipped
}

// Contribution returns the score this outcome adds to its team
func (o TurnOutcome) Contribution(penaltyPerSkip int) int {
	switch {
	case o.Correct:
		return 1
	case o.Skipped:
		return -penaltyPerSkip
	default:
		return 0
	}
}

// CloneOutcomes returns an independent copy of an outcome list
func CloneOutcomes(outcomes []TurnOutcome) []TurnOutcome {
	if outcomes == nil {
		return []TurnOutcome{}
	}
	out := make([]TurnOutcome, len(outcomes))
	copy(out, outcomes)
	return out
}
