package model

import (
	"fmt"
	"time"
)

// MatchID uniquely identifies a match
type MatchID string

// TeamName identifies a team within a match
type TeamName string

// GoalType selects how progress towards the match goal is measured
type GoalType string

const (
	GoalTargetWords GoalType = "target_words" // Cumulative correct guesses
	GoalTargetScore GoalType = "target_score" // Cumulative score including skip penalties
)

// MatchGoal is the condition that ends a match
type MatchGoal struct {
	Type   GoalType
	Target int
}

// Remaining returns how far progress is from the target, never below zero
func (g MatchGoal) Remaining(progress int) int {
	if progress >= g.Target {
		return 0
	}
	return g.Target - progress
}

// Reached returns true once progress has hit the target
func (g MatchGoal) Reached(progress int) bool {
	return progress >= g.Target
}

// MatchConfig is fixed for the lifetime of a match
type MatchConfig struct {
	Goal           MatchGoal
	MaxSkips       int
	PenaltyPerSkip int
	RoundSeconds   int
}

// DefaultMatchConfig returns the default match configuration
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Goal:           MatchGoal{Type: GoalTargetWords, Target: 30},
		MaxSkips:       3,
		PenaltyPerSkip: 1,
		RoundSeconds:   60,
	}
}

// RoundDuration returns the turn length as a duration
func (c MatchConfig) RoundDuration() time.Duration {
	return time.Duration(c.RoundSeconds) * time.Second
}

// Validate checks the configuration bounds
func (c MatchConfig) Validate() error {
	switch c.Goal.Type {
	case GoalTargetWords, GoalTargetScore:
	default:
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidConfig, c.Goal.Type)
	}
	if c.Goal.Target <= 0 {
		return fmt.Errorf("%w: goal target must be positive", ErrInvalidConfig)
	}
	if c.MaxSkips < 0 {
		return fmt.Errorf("%w: max skips must not be negative", ErrInvalidConfig)
	}
	if c.PenaltyPerSkip < 0 {
		return fmt.Errorf("%w: penalty per skip must not be negative", ErrInvalidConfig)
	}
	if c.RoundSeconds <= 0 {
		return fmt.Errorf("%w: round seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// ValidateTeams checks that a team list is usable for a match
func ValidateTeams(teams []TeamName) error {
	if len(teams) == 0 {
		return fmt.Errorf("%w: at least one team is required", ErrInvalidTeams)
	}
	seen := make(map[TeamName]struct{}, len(teams))
	for _, t := range teams {
		if t == "" {
			return fmt.Errorf("%w: team name must not be empty", ErrInvalidTeams)
		}
		if _, ok := seen[t]; ok {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidTeams, t)
		}
		seen[t] = struct{}{}
	}
	return nil
}

// Scores maps each team to its cumulative score
type Scores map[TeamName]int

// Clone returns an independent copy
func (s Scores) Clone() Scores {
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
