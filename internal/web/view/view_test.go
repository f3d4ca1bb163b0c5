package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordrush/internal/model"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestStatePanel_TurnActive(t *testing.T) {
	doc := render(t, StatePanel("MATCH1", model.TurnActiveState{
		Team:            "Red",
		Word:            "giraffe",
		RemainingToGoal: 4,
		Score:           1,
		SkipsRemaining:  2,
		TimeRemaining:   17,
		TotalSeconds:    30,
	}))

	panel := doc.Find("#state-panel")
	require.Equal(t, 1, panel.Length())
	assert.Equal(t, "turn_active", panel.AttrOr("data-kind", ""))
	assert.Equal(t, "Red", panel.Find(".team").Text())
	assert.Equal(t, "17", panel.Find(".time-remaining").Text())
	assert.Equal(t, "2", panel.Find(".skips .value").Text())
	assert.NotContains(t, panel.Text(), "giraffe")
}

func TestStatePanel_TurnFinished(t *testing.T) {
	doc := render(t, StatePanel("MATCH1", model.TurnFinishedState{
		Team:       "Blue",
		DeltaScore: -1,
		Scores:     model.Scores{"Red": 3, "Blue": 1},
		Outcomes: []model.TurnOutcome{
			{Word: "apple", Correct: true},
			{Word: "banana", Skipped: true},
			{Word: "cherry", Skipped: true},
			{Word: "date"},
		},
		MatchOver: true,
	}))

	assert.Equal(t, "-1", doc.Find(".delta").Text())

	outcomes := doc.Find(".outcomes li")
	require.Equal(t, 4, outcomes.Length())
	assert.True(t, outcomes.Eq(0).HasClass("correct"))
	assert.True(t, outcomes.Eq(1).HasClass("skipped"))
	assert.True(t, outcomes.Eq(3).HasClass("pending"))
	assert.Equal(t, "date", outcomes.Eq(3).Text())

	rows := doc.Find(".scores tbody tr")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "Red", rows.Eq(0).Find(".team").Text())
	assert.Equal(t, "3", rows.Eq(0).Find(".score").Text())
	assert.Equal(t, 1, doc.Find(".match-over").Length())
}

func TestStatePanel_EscapesTeamNames(t *testing.T) {
	doc := render(t, StatePanel("MATCH1", model.TurnPendingState{
		Team:   "<script>alert(1)</script>",
		Scores: model.Scores{"<script>alert(1)</script>": 0},
	}))

	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Equal(t, "<script>alert(1)</script>", doc.Find("h3 .team").Text())
}

func TestMatchPage_Live(t *testing.T) {
	doc := render(t, MatchPage(MatchPageData{
		Match: &model.MatchRecord{
			ID:     "MATCH1",
			Config: model.MatchConfig{Goal: model.MatchGoal{Type: model.GoalTargetScore, Target: 10}},
		},
		State: model.TurnPendingState{Team: "Red", Scores: model.Scores{"Red": 0}},
		Turns: []*model.TurnRecord{
			{Number: 1, Team: "Red", DeltaScore: 2, Outcomes: []model.TurnOutcome{{Correct: true}, {Correct: true}}},
		},
	}))

	assert.Equal(t, "MATCH1", doc.Find("#match").AttrOr("data-match-id", ""))
	assert.Equal(t, "Goal: 10 points across all teams", doc.Find(".goal").Text())
	assert.Equal(t, "/api/v1/matches/MATCH1/events", doc.Find("[sse-connect]").AttrOr("sse-connect", ""))
	assert.Equal(t, 1, doc.Find("#state-panel").Length())

	rows := doc.Find(".history tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "+2", rows.Find(".delta").Text())
}

func TestMatchPage_Closed(t *testing.T) {
	doc := render(t, MatchPage(MatchPageData{
		Match: &model.MatchRecord{
			ID:          "MATCH1",
			Config:      model.DefaultMatchConfig(),
			Finished:    true,
			FinalScores: model.Scores{"Red": 30, "Blue": 12},
		},
	}))

	assert.Equal(t, 0, doc.Find("[sse-connect]").Length())
	assert.Equal(t, 0, doc.Find("#state-panel").Length())
	assert.Equal(t, 1, doc.Find(".closed").Length())
	assert.Equal(t, "Red", doc.Find(".scores tbody tr").First().Find(".team").Text())
}

func TestErrorPage(t *testing.T) {
	doc := render(t, ErrorPage("Not found", "No such match"))

	assert.Contains(t, doc.Find("title").Text(), "Not found")
	assert.Equal(t, "No such match", doc.Find(".error p").Text())
}
