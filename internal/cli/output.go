package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mcoot/wordrush/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.CreateMatchResponse:
		o.printMatch(v.Match)
		fmt.Fprintf(o.w, "Host Key: %s\n", v.HostKey)
		o.printState(v.State)
	case response.MatchResponse:
		o.printMatch(v.Match)
		if v.State != nil {
			o.printState(*v.State)
		}
	case response.State:
		o.printState(v)
	case response.PeekResponse:
		o.printPeek(v)
	case response.HistoryResponse:
		o.printHistory(v)
	case response.HealthResponse:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printMatch(m response.Match) {
	status := "live"
	switch {
	case m.Finished:
		status = "finished"
	case !m.Live:
		status = "closed"
	}
	fmt.Fprintf(o.w, "Match: %s (%s)\n", m.ID, status)
	fmt.Fprintf(o.w, "Teams: %s\n", strings.Join(m.Teams, ", "))
	fmt.Fprintf(o.w, "Goal: %s %d\n", m.Config.Goal.Type, m.Config.Goal.Target)
	fmt.Fprintf(o.w, "Skips: %d per turn, -%d each\n", m.Config.MaxSkips, m.Config.PenaltyPerSkip)
	fmt.Fprintf(o.w, "Turn Length: %ds\n", m.Config.RoundSeconds)
	if m.FinalScores != nil {
		fmt.Fprintln(o.w, "Final Scores:")
		o.printScores(m.FinalScores)
	}
}

func (o *Output) printState(s response.State) {
	fmt.Fprintf(o.w, "State: %s\n", s.Kind)
	if s.Team != "" {
		fmt.Fprintf(o.w, "Team: %s\n", s.Team)
	}
	if s.Word != "" {
		fmt.Fprintf(o.w, "Word: %s\n", s.Word)
	}
	if s.TimeRemaining != nil && s.TotalSeconds != nil {
		fmt.Fprintf(o.w, "Time: %d/%ds\n", *s.TimeRemaining, *s.TotalSeconds)
	}
	if s.Score != nil {
		fmt.Fprintf(o.w, "Turn Score: %d\n", *s.Score)
	}
	if s.SkipsRemaining != nil {
		fmt.Fprintf(o.w, "Skips Left: %d\n", *s.SkipsRemaining)
	}
	if s.RemainingToGoal != nil {
		fmt.Fprintf(o.w, "To Goal: %d\n", *s.RemainingToGoal)
	}
	if s.DeltaScore != nil {
		fmt.Fprintf(o.w, "Turn Delta: %+d\n", *s.DeltaScore)
	}
	if len(s.Outcomes) > 0 {
		fmt.Fprintln(o.w, "Outcomes:")
		for i, out := range s.Outcomes {
			fmt.Fprintf(o.w, "  %d. %s (%s)\n", i, out.Word, out.Result)
		}
	}
	if s.MatchOver != nil && *s.MatchOver {
		fmt.Fprintln(o.w, "Match over: next turn ends the match")
	}
	if len(s.Scores) > 0 {
		fmt.Fprintln(o.w, "Scores:")
		o.printScores(s.Scores)
	}
}

func (o *Output) printScores(scores map[string]int) {
	teams := make([]string, 0, len(scores))
	for team := range scores {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if scores[teams[i]] != scores[teams[j]] {
			return scores[teams[i]] > scores[teams[j]]
		}
		return teams[i] < teams[j]
	})
	for _, team := range teams {
		fmt.Fprintf(o.w, "  %s: %d\n", team, scores[team])
	}
}

func (o *Output) printPeek(p response.PeekResponse) {
	if !p.Available {
		fmt.Fprintln(o.w, "No words left")
		return
	}
	fmt.Fprintf(o.w, "Next word: %s\n", p.Word)
}

func (o *Output) printHistory(h response.HistoryResponse) {
	if len(h.Turns) == 0 {
		fmt.Fprintln(o.w, "No turns recorded")
		return
	}
	for _, t := range h.Turns {
		fmt.Fprintf(o.w, "Turn %d: %s %+d\n", t.Number, t.Team, t.DeltaScore)
		for i, out := range t.Outcomes {
			fmt.Fprintf(o.w, "  %d. %s (%s)\n", i, out.Word, out.Result)
		}
	}
}

func (o *Output) printHealth(h response.HealthResponse) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Words: %d\n", h.Words)
	fmt.Fprintf(o.w, "Live Matches: %d\n", h.LiveMatches)
}
