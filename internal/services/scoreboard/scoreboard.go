package scoreboard

import (
	"fmt"

	"github.com/mcoot/wordrush/internal/model"
)

// Scoreboard is the single source of truth for cumulative team scores.
// It also tracks cumulative correct guesses, which the words goal sums.
type Scoreboard struct {
	teams   []model.TeamName
	scores  map[model.TeamName]int
	correct map[model.TeamName]int
}

// New creates a scoreboard with every team at zero
func New(teams []model.TeamName) *Scoreboard {
	sb := &Scoreboard{
		teams: append([]model.TeamName(nil), teams...),
	}
	sb.Reset()
	return sb
}

// Reset zeroes every team
func (s *Scoreboard) Reset() {
	s.scores = make(map[model.TeamName]int, len(s.teams))
	s.correct = make(map[model.TeamName]int, len(s.teams))
	for _, t := range s.teams {
		s.scores[t] = 0
		s.correct[t] = 0
	}
}

// ApplyDelta adds delta (possibly negative) to a team's score and returns the new scores
func (s *Scoreboard) ApplyDelta(team model.TeamName, delta int) (model.Scores, error) {
	if _, ok := s.scores[team]; !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownTeam, team)
	}
	s.scores[team] += delta
	return s.Scores(), nil
}

// AddCorrect adds n (possibly negative) to a team's correct guess count
func (s *Scoreboard) AddCorrect(team model.TeamName, n int) error {
	if _, ok := s.correct[team]; !ok {
		return fmt.Errorf("%w: %q", model.ErrUnknownTeam, team)
	}
	s.correct[team] += n
	return nil
}

// Score returns a team's cumulative score
func (s *Scoreboard) Score(team model.TeamName) int {
	return s.scores[team]
}

// Correct returns a team's cumulative correct guess count
func (s *Scoreboard) Correct(team model.TeamName) int {
	return s.correct[team]
}

// Progress returns the match's progress towards the given goal: the total
// score or total correct guesses summed over every team
func (s *Scoreboard) Progress(goal model.MatchGoal) int {
	counts := s.correct
	if goal.Type == model.GoalTargetScore {
		counts = s.scores
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// Scores returns a copy of the cumulative scores
func (s *Scoreboard) Scores() model.Scores {
	return model.Scores(s.scores).Clone()
}
