package view

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/a-h/templ"

	"github.com/mcoot/wordrush/internal/model"
)

// MatchPageData is everything the scoreboard page shows
type MatchPageData struct {
	Match *model.MatchRecord
	State model.GameState // nil once the match is no longer live
	Turns []*model.TurnRecord
}

// MatchPage renders the scoreboard page for a match
func MatchPage(data MatchPageData) templ.Component {
	return Page("Match "+string(data.Match.ID), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := templ.EscapeString(string(data.Match.ID))
		if _, err := fmt.Fprintf(w, `<article id="match" data-match-id="%s">
<h2>Match %s</h2>
<p class="goal">%s</p>
`, id, id, templ.EscapeString(goalText(data.Match.Config.Goal))); err != nil {
			return err
		}

		if data.State != nil {
			if _, err := fmt.Fprintf(w, `<div hx-ext="sse" sse-connect="/api/v1/matches/%s/events" sse-swap="state-panel" hx-swap="outerHTML" hx-target="#state-panel"></div>
`, id); err != nil {
				return err
			}
			if err := StatePanel(data.Match.ID, data.State).Render(ctx, w); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<p class="closed">This match is no longer live.</p>`+"\n"); err != nil {
				return err
			}
			if data.Match.FinalScores != nil {
				if err := ScoreTable(data.Match.FinalScores).Render(ctx, w); err != nil {
					return err
				}
			}
		}

		if err := HistoryTable(data.Turns).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</article>")
		return err
	}))
}

// StatePanel renders the current phase of a match
func StatePanel(matchID model.MatchID, state model.GameState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section id="state-panel" class="state" data-kind="%s">`, state.Kind()); err != nil {
			return err
		}

		var err error
		switch st := state.(type) {
		case model.TurnPendingState:
			_, err = fmt.Fprintf(w, `<h3>Up next: <span class="team">%s</span></h3><p class="remaining">%d to go</p>`,
				templ.EscapeString(string(st.Team)), st.RemainingToGoal)
			if err == nil {
				err = ScoreTable(st.Scores).Render(ctx, w)
			}
		case model.TurnActiveState:
			// The word is never shown on the shared scoreboard
			_, err = fmt.Fprintf(w, `<h3>Playing: <span class="team">%s</span></h3>
<p class="timer"><span class="time-remaining">%d</span>/%d s</p>
<p class="score">Score <span class="value">%d</span></p>
<p class="skips">Skips left <span class="value">%d</span></p>
<p class="remaining">%d to go</p>`,
				templ.EscapeString(string(st.Team)), st.TimeRemaining, st.TotalSeconds, st.Score, st.SkipsRemaining, st.RemainingToGoal)
		case model.TurnFinishedState:
			_, err = fmt.Fprintf(w, `<h3>Turn over: <span class="team">%s</span> <span class="delta">%+d</span></h3>`,
				templ.EscapeString(string(st.Team)), st.DeltaScore)
			if err == nil {
				err = OutcomeList(st.Outcomes).Render(ctx, w)
			}
			if err == nil {
				err = ScoreTable(st.Scores).Render(ctx, w)
			}
			if err == nil && st.MatchOver {
				_, err = io.WriteString(w, `<p class="match-over">Match over</p>`)
			}
		case model.MatchFinishedState:
			_, err = io.WriteString(w, `<h3>Match finished</h3>`)
			if err == nil {
				err = ScoreTable(st.Scores).Render(ctx, w)
			}
		default:
			_, err = io.WriteString(w, `<h3>Waiting to start</h3>`)
		}
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, "</section>\n")
		return err
	})
}

// ScoreTable renders team scores, highest first
func ScoreTable(scores model.Scores) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		teams := make([]model.TeamName, 0, len(scores))
		for team := range scores {
			teams = append(teams, team)
		}
		sort.Slice(teams, func(i, j int) bool {
			if scores[teams[i]] != scores[teams[j]] {
				return scores[teams[i]] > scores[teams[j]]
			}
			return teams[i] < teams[j]
		})

		if _, err := io.WriteString(w, `<table class="scores"><thead><tr><th>Team</th><th>Score</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, team := range teams {
			if _, err := fmt.Fprintf(w, `<tr><td class="team">%s</td><td class="score">%d</td></tr>`,
				templ.EscapeString(string(team)), scores[team]); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table>\n")
		return err
	})
}

// OutcomeList renders the words of a turn with their results
func OutcomeList(outcomes []model.TurnOutcome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ol class="outcomes">`); err != nil {
			return err
		}
		for _, o := range outcomes {
			if _, err := fmt.Fprintf(w, `<li class="outcome %s">%s</li>`,
				outcomeClass(o), templ.EscapeString(o.Word)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ol>\n")
		return err
	})
}

// HistoryTable renders the recorded turns of a match
func HistoryTable(turns []*model.TurnRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<table class="history"><thead><tr><th>#</th><th>Team</th><th>Correct</th><th>Delta</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, t := range turns {
			if _, err := fmt.Fprintf(w, `<tr class="turn"><td>%d</td><td class="team">%s</td><td>%d</td><td class="delta">%+d</td></tr>`,
				t.Number, templ.EscapeString(string(t.Team)), t.CorrectCount(), t.DeltaScore); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</tbody></table>\n")
		return err
	})
}

func outcomeClass(o model.TurnOutcome) string {
	switch {
	case o.Correct:
		return "correct"
	case o.Skipped:
		return "skipped"
	default:
		return "pending"
	}
}

func goalText(g model.MatchGoal) string {
	switch g.Type {
	case model.GoalTargetScore:
		return fmt.Sprintf("Goal: %d points across all teams", g.Target)
	default:
		return fmt.Sprintf("Goal: %d words across all teams", g.Target)
	}
}
