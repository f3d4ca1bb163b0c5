package response

import (
	"time"

	"github.com/mcoot/wordrush/internal/model"
)

// Outcome results
const (
	ResultCorrect = "correct"
	ResultSkipped = "skipped"
	ResultPending = "pending"
)

// Goal represents a match goal
type Goal struct {
	Type   string `json:"type"`
	Target int    `json:"target"`
}

// GoalFromModel converts model.MatchGoal
func GoalFromModel(g model.MatchGoal) Goal {
	return Goal{Type: string(g.Type), Target: g.Target}
}

// MatchConfig represents match configuration
type MatchConfig struct {
	Goal           Goal `json:"goal"`
	MaxSkips       int  `json:"max_skips"`
	PenaltyPerSkip int  `json:"penalty_per_skip"`
	RoundSeconds   int  `json:"round_seconds"`
}

// MatchConfigFromModel converts model.MatchConfig
func MatchConfigFromModel(c model.MatchConfig) MatchConfig {
	return MatchConfig{
		Goal:           GoalFromModel(c.Goal),
		MaxSkips:       c.MaxSkips,
		PenaltyPerSkip: c.PenaltyPerSkip,
		RoundSeconds:   c.RoundSeconds,
	}
}

// Outcome represents one word of a turn
type Outcome struct {
	Word      string    `json:"word"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// OutcomeFromModel converts model.TurnOutcome
func OutcomeFromModel(o model.TurnOutcome) Outcome {
	result := ResultPending
	switch {
	case o.Correct:
		result = ResultCorrect
	case o.Skipped:
		result = ResultSkipped
	}
	return Outcome{Word: o.Word, Result: result, Timestamp: o.Timestamp}
}

func outcomesFromModel(outcomes []model.TurnOutcome) []Outcome {
	result := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		result[i] = OutcomeFromModel(o)
	}
	return result
}

func scoresFromModel(scores model.Scores) map[string]int {
	result := make(map[string]int, len(scores))
	for team, score := range scores {
		result[string(team)] = score
	}
	return result
}

// State is a game state tagged by kind. Only the fields of that kind are set.
type State struct {
	Kind string `json:"kind"`

	Team            string         `json:"team,omitempty"`
	Word            string         `json:"word,omitempty"`
	Goal            *Goal          `json:"goal,omitempty"`
	RemainingToGoal *int           `json:"remaining_to_goal,omitempty"`
	Score           *int           `json:"score,omitempty"`
	SkipsRemaining  *int           `json:"skips_remaining,omitempty"`
	TimeRemaining   *int           `json:"time_remaining,omitempty"`
	TotalSeconds    *int           `json:"total_seconds,omitempty"`
	DeltaScore      *int           `json:"delta_score,omitempty"`
	Scores          map[string]int `json:"scores,omitempty"`
	Outcomes        []Outcome      `json:"outcomes,omitempty"`
	MatchOver       *bool          `json:"match_over,omitempty"`
}

// StateFromModel converts a model.GameState
func StateFromModel(s model.GameState) State {
	switch st := s.(type) {
	case model.TurnPendingState:
		goal := GoalFromModel(st.Goal)
		return State{
			Kind:            string(st.Kind()),
			Team:            string(st.Team),
			Scores:          scoresFromModel(st.Scores),
			Goal:            &goal,
			RemainingToGoal: &st.RemainingToGoal,
		}
	case model.TurnActiveState:
		goal := GoalFromModel(st.Goal)
		return State{
			Kind:            string(st.Kind()),
			Team:            string(st.Team),
			Word:            st.Word,
			Goal:            &goal,
			RemainingToGoal: &st.RemainingToGoal,
			Score:           &st.Score,
			SkipsRemaining:  &st.SkipsRemaining,
			TimeRemaining:   &st.TimeRemaining,
			TotalSeconds:    &st.TotalSeconds,
		}
	case model.TurnFinishedState:
		return State{
			Kind:       string(st.Kind()),
			Team:       string(st.Team),
			DeltaScore: &st.DeltaScore,
			Scores:     scoresFromModel(st.Scores),
			Outcomes:   outcomesFromModel(st.Outcomes),
			MatchOver:  &st.MatchOver,
		}
	case model.MatchFinishedState:
		return State{
			Kind:   string(st.Kind()),
			Scores: scoresFromModel(st.Scores),
		}
	default:
		return State{Kind: string(model.StateIdle)}
	}
}

// PublicStateFromModel converts a model.GameState without the current word
func PublicStateFromModel(s model.GameState) State {
	st := StateFromModel(s)
	st.Word = ""
	return st
}

// Match represents a match record
type Match struct {
	ID          string         `json:"id"`
	Teams       []string       `json:"teams"`
	Config      MatchConfig    `json:"config"`
	Seed        uint64         `json:"seed"`
	Live        bool           `json:"live"`
	Finished    bool           `json:"finished"`
	FinalScores map[string]int `json:"final_scores,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MatchFromModel converts model.MatchRecord
func MatchFromModel(m *model.MatchRecord, live bool) Match {
	teams := make([]string, len(m.Teams))
	for i, t := range m.Teams {
		teams[i] = string(t)
	}
	var final map[string]int
	if m.FinalScores != nil {
		final = scoresFromModel(m.FinalScores)
	}
	return Match{
		ID:          string(m.ID),
		Teams:       teams,
		Config:      MatchConfigFromModel(m.Config),
		Seed:        m.Seed,
		Live:        live,
		Finished:    m.Finished,
		FinalScores: final,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CreateMatchResponse is returned once when a match is created
type CreateMatchResponse struct {
	Match   Match  `json:"match"`
	HostKey string `json:"host_key"`
	State   State  `json:"state"`
}

// MatchResponse is a match with its live state, if it is still running
type MatchResponse struct {
	Match Match  `json:"match"`
	State *State `json:"state,omitempty"`
}

// StateResponse wraps the state reached after a command
type StateResponse struct {
	State State `json:"state"`
}

// PeekResponse is the next word in the queue
type PeekResponse struct {
	Word      string `json:"word"`
	Available bool   `json:"available"`
}

// Turn represents a recorded turn
type Turn struct {
	Number     int       `json:"number"`
	Team       string    `json:"team"`
	DeltaScore int       `json:"delta_score"`
	Outcomes   []Outcome `json:"outcomes"`
	MatchOver  bool      `json:"match_over"`
	FinishedAt time.Time `json:"finished_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TurnFromModel converts model.TurnRecord
func TurnFromModel(t *model.TurnRecord) Turn {
	return Turn{
		Number:     t.Number,
		Team:       string(t.Team),
		DeltaScore: t.DeltaScore,
		Outcomes:   outcomesFromModel(t.Outcomes),
		MatchOver:  t.MatchOver,
		FinishedAt: t.FinishedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// HistoryResponse lists a match's recorded turns
type HistoryResponse struct {
	Turns []Turn `json:"turns"`
}

// HistoryFromModel converts a list of turn records
func HistoryFromModel(turns []*model.TurnRecord) HistoryResponse {
	result := make([]Turn, len(turns))
	for i, t := range turns {
		result[i] = TurnFromModel(t)
	}
	return HistoryResponse{Turns: result}
}

// Event is the payload of a server-sent event
type Event struct {
	Type      string    `json:"type"`
	MatchID   string    `json:"match_id"`
	Timestamp time.Time `json:"timestamp"`
	State     *State    `json:"state,omitempty"`
	Turn      *Turn     `json:"turn,omitempty"`
}

// EventFromModel converts model.Event. Events are public, so the state never
// carries the current word.
func EventFromModel(e model.Event) Event {
	event := Event{
		Type:      string(e.Type),
		MatchID:   string(e.MatchID),
		Timestamp: e.Timestamp,
	}
	if e.State != nil {
		st := PublicStateFromModel(e.State)
		event.State = &st
	}
	if e.Turn != nil {
		turn := TurnFromModel(e.Turn)
		event.Turn = &turn
	}
	return event
}

// HealthResponse reports server health
type HealthResponse struct {
	Status      string `json:"status"`
	Words       int    `json:"words"`
	LiveMatches int    `json:"live_matches"`
}
