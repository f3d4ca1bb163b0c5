package request

import (
	"github.com/mcoot/wordrush/internal/model"
)

// CreateMatchRequest is the request body for creating a match.
// Omitted settings fall back to model.DefaultMatchConfig.
type CreateMatchRequest struct {
	Teams          []string `json:"teams"`
	Goal           string   `json:"goal,omitempty"`
	Target         int      `json:"target,omitempty"`
	MaxSkips       *int     `json:"max_skips,omitempty"`
	PenaltyPerSkip *int     `json:"penalty_per_skip,omitempty"`
	RoundSeconds   int      `json:"round_seconds,omitempty"`
	Seed           *uint64  `json:"seed,omitempty"`
}

// MatchConfig builds the match config, applying defaults
func (r CreateMatchRequest) MatchConfig() model.MatchConfig {
	cfg := model.DefaultMatchConfig()
	if r.Goal != "" {
		cfg.Goal.Type = model.GoalType(r.Goal)
	}
	if r.Target != 0 {
		cfg.Goal.Target = r.Target
	}
	if r.MaxSkips != nil {
		cfg.MaxSkips = *r.MaxSkips
	}
	if r.PenaltyPerSkip != nil {
		cfg.PenaltyPerSkip = *r.PenaltyPerSkip
	}
	if r.RoundSeconds != 0 {
		cfg.RoundSeconds = r.RoundSeconds
	}
	return cfg
}

// TeamNames converts the team list
func (r CreateMatchRequest) TeamNames() []model.TeamName {
	teams := make([]model.TeamName, len(r.Teams))
	for i, t := range r.Teams {
		teams[i] = model.TeamName(t)
	}
	return teams
}

// OverrideRequest is the request body for overriding a turn outcome
type OverrideRequest struct {
	Correct *bool `json:"correct"`
}
