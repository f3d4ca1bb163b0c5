package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordrush/internal/dependencies/mocks"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	engine *Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
	s.engine = s.newEngine([]string{"apple", "banana", "cherry", "date", "elder", "fig", "grape", "hazel"})
}

func (s *EngineSuite) TearDownTest() {
	s.engine.Close()
}

func (s *EngineSuite) newEngine(words []string) *Engine {
	return New(s.ctx, words, Deps{Clock: s.clock, Logger: testutil.NopLogger()})
}

func wordsConfig(target int) model.MatchConfig {
	return model.MatchConfig{
		Goal:           model.MatchGoal{Type: model.GoalTargetWords, Target: target},
		MaxSkips:       2,
		PenaltyPerSkip: 1,
		RoundSeconds:   30,
	}
}

func (s *EngineSuite) active() model.TurnActiveState {
	st, ok := s.engine.State().(model.TurnActiveState)
	s.Require().True(ok, "expected turn_active, got %s", s.engine.State().Kind())
	return st
}

func (s *EngineSuite) finished() model.TurnFinishedState {
	st, ok := s.engine.State().(model.TurnFinishedState)
	s.Require().True(ok, "expected turn_finished, got %s", s.engine.State().Kind())
	return st
}

func (s *EngineSuite) waitNoTickers() {
	s.Require().Eventually(func() bool {
		return s.clock.ActiveTickers() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func (s *EngineSuite) waitFor(kind model.StateKind) {
	s.Require().Eventually(func() bool {
		return s.engine.State().Kind() == kind
	}, 2*time.Second, 5*time.Millisecond)
}

// Initial state and StartMatch

func (s *EngineSuite) TestStartsIdle() {
	s.Equal(model.StateIdle, s.engine.State().Kind())
	_, ok := s.engine.PeekNextWord()
	s.False(ok)
}

func (s *EngineSuite) TestStartMatchEntersTurnPending() {
	err := s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red", "blue"}, 1)
	s.Require().NoError(err)

	st, ok := s.engine.State().(model.TurnPendingState)
	s.Require().True(ok)
	s.Equal(model.TeamName("red"), st.Team)
	s.Equal(model.Scores{"red": 0, "blue": 0}, st.Scores)
	s.Equal(5, st.RemainingToGoal)
}

func (s *EngineSuite) TestStartMatchRejectsInvalidConfig() {
	cfg := wordsConfig(0)
	s.ErrorIs(s.engine.StartMatch(cfg, []model.TeamName{"red"}, 1), model.ErrInvalidConfig)

	cfg = wordsConfig(3)
	cfg.RoundSeconds = 0
	s.ErrorIs(s.engine.StartMatch(cfg, []model.TeamName{"red"}, 1), model.ErrInvalidConfig)

	s.ErrorIs(s.engine.StartMatch(wordsConfig(3), nil, 1), model.ErrInvalidTeams)
	s.ErrorIs(s.engine.StartMatch(wordsConfig(3), []model.TeamName{"a", "a"}, 1), model.ErrInvalidTeams)
	s.Equal(model.StateIdle, s.engine.State().Kind())
}

// Protocol violations

func (s *EngineSuite) TestCommandsFromWrongStateFail() {
	s.ErrorIs(s.engine.StartTurn(), model.ErrInvalidCommand)
	s.ErrorIs(s.engine.Correct(), model.ErrInvalidCommand)
	s.ErrorIs(s.engine.Skip(), model.ErrInvalidCommand)
	s.ErrorIs(s.engine.NextTurn(), model.ErrInvalidCommand)
	s.ErrorIs(s.engine.OverrideOutcome(0, true), model.ErrInvalidCommand)

	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.ErrorIs(s.engine.Correct(), model.ErrInvalidCommand)
	s.ErrorIs(s.engine.NextTurn(), model.ErrInvalidCommand)
	s.Equal(model.StateTurnPending, s.engine.State().Kind())
}

// Turn play

func (s *EngineSuite) TestStartTurnServesPeekedWord() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	peeked, ok := s.engine.PeekNextWord()
	s.Require().True(ok)

	s.Require().NoError(s.engine.StartTurn())

	st := s.active()
	s.Equal(peeked, st.Word)
	s.Equal(2, st.SkipsRemaining)
	s.Equal(30, st.TimeRemaining)
	s.Equal(30, st.TotalSeconds)
	s.Equal(1, s.clock.ActiveTickers())
}

func (s *EngineSuite) TestCorrectScoresAndServesNextWord() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	first := s.active().Word
	next, _ := s.engine.PeekNextWord()

	s.Require().NoError(s.engine.Correct())

	st := s.active()
	s.Equal(next, st.Word)
	s.NotEqual(first, st.Word)
	s.Equal(1, st.Score)
	s.Equal(4, st.RemainingToGoal)
}

func (s *EngineSuite) TestSkipBudgetEnforced() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())

	s.Require().NoError(s.engine.Skip())
	s.Require().NoError(s.engine.Skip())
	st := s.active()
	s.Equal(0, st.SkipsRemaining)
	s.Equal(-2, st.Score)
	word := st.Word
	peeked, _ := s.engine.PeekNextWord()

	// Budget spent: further skips change nothing
	s.Require().NoError(s.engine.Skip())
	s.Require().NoError(s.engine.Skip())

	st = s.active()
	s.Equal(0, st.SkipsRemaining)
	s.Equal(-2, st.Score)
	s.Equal(word, st.Word)
	again, _ := s.engine.PeekNextWord()
	s.Equal(peeked, again)
}

func (s *EngineSuite) TestSkipsResetEachTurn() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(10), []model.TeamName{"red", "blue"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Skip())
	s.Equal(1, s.active().SkipsRemaining)

	s.expireTurn()
	s.Require().NoError(s.engine.NextTurn())
	s.Require().NoError(s.engine.StartTurn())

	st := s.active()
	s.Equal(model.TeamName("blue"), st.Team)
	s.Equal(2, st.SkipsRemaining)
}

func (s *EngineSuite) TestGoalReachedEndsTurnWithoutConsumingWord() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(2), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	upcoming, _ := s.engine.PeekNextWord()
	s.Require().NoError(s.engine.Correct())

	st := s.finished()
	s.True(st.MatchOver)
	s.Equal(2, st.DeltaScore)
	s.Len(st.Outcomes, 2)
	s.waitNoTickers()

	// The word after the last correct guess is still at the head of the queue
	peeked, ok := s.engine.PeekNextWord()
	s.True(ok)
	s.Equal(upcoming, peeked)

	s.Require().NoError(s.engine.NextTurn())
	final, ok := s.engine.State().(model.MatchFinishedState)
	s.Require().True(ok)
	s.Equal(model.Scores{"red": 2}, final.Scores)
}

func (s *EngineSuite) TestScoreGoal() {
	cfg := wordsConfig(3)
	cfg.Goal.Type = model.GoalTargetScore
	s.Require().NoError(s.engine.StartMatch(cfg, []model.TeamName{"red", "blue"}, 1))
	s.Require().NoError(s.engine.StartTurn())

	s.Require().NoError(s.engine.Skip())    // red -1
	s.Require().NoError(s.engine.Correct()) // red 0
	s.Require().NoError(s.engine.Correct()) // red 1
	s.Equal(2, s.active().RemainingToGoal)
	s.expireTurn()
	s.False(s.finished().MatchOver)
	s.Require().NoError(s.engine.NextTurn())

	// The total score counts towards the goal, not just the playing team's
	pending := s.engine.State().(model.TurnPendingState)
	s.Equal(model.TeamName("blue"), pending.Team)
	s.Equal(2, pending.RemainingToGoal)

	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct()) // total 2
	s.Equal(1, s.active().RemainingToGoal)
	s.Require().NoError(s.engine.Correct()) // total 3

	st := s.finished()
	s.True(st.MatchOver)
	s.Equal(model.Scores{"red": 1, "blue": 2}, st.Scores)
}

func (s *EngineSuite) TestWordsGoalIsSharedAcrossTeams() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(2), []model.TeamName{"red", "blue"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	s.expireTurn()
	s.False(s.finished().MatchOver)
	s.Require().NoError(s.engine.NextTurn())

	pending := s.engine.State().(model.TurnPendingState)
	s.Equal(model.TeamName("blue"), pending.Team)
	s.Equal(1, pending.RemainingToGoal)

	s.Require().NoError(s.engine.StartTurn())
	s.Equal(1, s.active().RemainingToGoal)
	s.Require().NoError(s.engine.Correct())

	s.True(s.finished().MatchOver)
	s.Require().NoError(s.engine.NextTurn())
	final, ok := s.engine.State().(model.MatchFinishedState)
	s.Require().True(ok)
	s.Equal(model.Scores{"red": 1, "blue": 1}, final.Scores)
}

func (s *EngineSuite) TestEmptyQueueEndsTurn() {
	e := s.newEngine([]string{"only"})
	defer e.Close()
	s.Require().NoError(e.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(e.StartTurn())

	s.Require().NoError(e.Correct())

	st, ok := e.State().(model.TurnFinishedState)
	s.Require().True(ok)
	s.True(st.MatchOver)
	s.Equal(1, st.DeltaScore)
}

func (s *EngineSuite) TestEmptyWordPoolFinishesImmediately() {
	e := s.newEngine(nil)
	defer e.Close()
	s.Require().NoError(e.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))

	s.Require().NoError(e.StartTurn())

	st, ok := e.State().(model.TurnFinishedState)
	s.Require().True(ok)
	s.True(st.MatchOver)
	s.Empty(st.Outcomes)
	s.Equal(0, s.clock.ActiveTickers())

	s.Require().NoError(e.NextTurn())
	s.Equal(model.StateMatchFinished, e.State().Kind())
}

// Timer

func (s *EngineSuite) expireTurn() {
	remaining := s.active().TimeRemaining
	for i := 0; i < remaining; i++ {
		s.clock.Tick()
	}
	s.waitFor(model.StateTurnFinished)
}

func (s *EngineSuite) TestTimerTicksDown() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())

	s.clock.Tick()
	s.clock.Tick()

	s.Require().Eventually(func() bool {
		st, ok := s.engine.State().(model.TurnActiveState)
		return ok && st.TimeRemaining == 28
	}, 2*time.Second, 5*time.Millisecond)
}

func (s *EngineSuite) TestTimerExpiryRecordsPendingOutcome() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	current := s.active().Word

	s.expireTurn()

	st := s.finished()
	s.Require().Len(st.Outcomes, 2)
	last := st.Outcomes[1]
	s.Equal(current, last.Word)
	s.True(last.Pending())
	s.Equal(1, st.DeltaScore)
	s.False(st.MatchOver)
}

func (s *EngineSuite) TestTimerCancelledWhenTurnEndsEarly() {
	e := s.newEngine([]string{"only"})
	defer e.Close()
	s.Require().NoError(e.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(e.StartTurn())
	s.Require().NoError(e.Correct())

	s.waitNoTickers()
	s.clock.Tick()
	s.Equal(model.StateTurnFinished, e.State().Kind())
}

func (s *EngineSuite) TestRestartCancelsTimer() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())

	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 2))
	s.waitNoTickers()

	for i := 0; i < 40; i++ {
		s.clock.Tick()
	}
	s.Equal(model.StateTurnPending, s.engine.State().Kind())
}

func (s *EngineSuite) TestCloseCancelsTimerAndRejectsCommands() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	ch, cancel := s.engine.Subscribe()
	defer cancel()
	<-ch

	s.engine.Close()

	s.waitNoTickers()
	s.ErrorIs(s.engine.Correct(), model.ErrMatchClosed)
	s.ErrorIs(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1), model.ErrMatchClosed)
	_, open := <-ch
	s.False(open)
}

func (s *EngineSuite) TestContextCancelClosesEngine() {
	ctx, cancel := context.WithCancel(context.Background())
	e := New(ctx, []string{"a", "b"}, Deps{Clock: s.clock, Logger: testutil.NopLogger()})
	defer e.Close()
	s.Require().NoError(e.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(e.StartTurn())

	cancel()

	s.waitNoTickers()
	s.Eventually(func() bool {
		return errors.Is(e.NextTurn(), model.ErrMatchClosed)
	}, 2*time.Second, 5*time.Millisecond)
}

// Override

func (s *EngineSuite) TestOverrideConservesScore() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(10), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	s.Require().NoError(s.engine.Skip())
	s.expireTurn()

	before := s.finished()
	s.Equal(0, before.Scores["red"])

	// correct -> skipped: -1 removed, -penalty added
	s.Require().NoError(s.engine.OverrideOutcome(0, false))
	after := s.finished()
	s.Equal(before.Scores["red"]-1+(-1), after.Scores["red"])
	s.Equal(-2, after.DeltaScore)

	// pending -> correct: 0 removed, +1 added
	s.Require().NoError(s.engine.OverrideOutcome(2, true))
	after = s.finished()
	s.Equal(-1, after.Scores["red"])
	s.Equal(-1, after.DeltaScore)
	s.False(after.Outcomes[2].Pending())
}

func (s *EngineSuite) TestOverrideOutOfRangeFailsAndLeavesState() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(10), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	s.expireTurn()
	before := s.finished()

	s.ErrorIs(s.engine.OverrideOutcome(2, true), model.ErrOutcomeOutOfRange)
	s.ErrorIs(s.engine.OverrideOutcome(-1, true), model.ErrOutcomeOutOfRange)

	s.Equal(before, s.finished())
}

func (s *EngineSuite) TestGoalCrossingIsBidirectional() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(3), []model.TeamName{"red", "blue"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	s.expireTurn()
	s.Require().NoError(s.engine.NextTurn())

	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	s.Require().NoError(s.engine.Skip())
	s.expireTurn()
	s.False(s.finished().MatchOver)

	// red 1 + blue 2 reaches the goal
	s.Require().NoError(s.engine.OverrideOutcome(1, true))
	s.True(s.finished().MatchOver)

	s.Require().NoError(s.engine.OverrideOutcome(1, false))
	s.False(s.finished().MatchOver)

	// Not over, so acknowledging goes to the next turn
	s.Require().NoError(s.engine.NextTurn())
	pending := s.engine.State().(model.TurnPendingState)
	s.Equal(model.TeamName("red"), pending.Team)
	s.Equal(1, pending.RemainingToGoal)
}

func (s *EngineSuite) TestGoalOnLastWordCanBeOverriddenBack() {
	e := s.newEngine([]string{"a", "b"})
	defer e.Close()
	s.Require().NoError(e.StartMatch(wordsConfig(2), []model.TeamName{"red"}, 1))
	s.Require().NoError(e.StartTurn())
	s.Require().NoError(e.Correct())
	s.Require().NoError(e.Correct())

	st := e.State().(model.TurnFinishedState)
	s.True(st.MatchOver)
	_, ok := e.PeekNextWord()
	s.False(ok)

	// No pull has come back empty, so only the goal was ending the match
	s.Require().NoError(e.OverrideOutcome(0, false))
	st = e.State().(model.TurnFinishedState)
	s.False(st.MatchOver)
	s.Equal(model.Scores{"red": 0}, st.Scores)

	s.Require().NoError(e.NextTurn())
	s.Require().NoError(e.StartTurn())
	st = e.State().(model.TurnFinishedState)
	s.True(st.MatchOver)
	s.Empty(st.Outcomes)

	s.Require().NoError(e.NextTurn())
	s.Equal(model.StateMatchFinished, e.State().Kind())
}

func (s *EngineSuite) TestOverrideCanEndMatch() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(2), []model.TeamName{"red", "blue"}, 1))
	s.Require().NoError(s.engine.StartTurn())
	s.Require().NoError(s.engine.Correct())
	s.expireTurn()
	s.Require().NoError(s.engine.OverrideOutcome(1, true))

	s.Require().NoError(s.engine.NextTurn())

	final, ok := s.engine.State().(model.MatchFinishedState)
	s.Require().True(ok)
	s.Equal(model.Scores{"red": 2, "blue": 0}, final.Scores)
}

// Worked example: words a,b,c; words goal 2; one skip; penalty 1; team T; seed 0
func (s *EngineSuite) TestWorkedExample() {
	e := s.newEngine([]string{"a", "b", "c"})
	defer e.Close()
	cfg := model.MatchConfig{
		Goal:           model.MatchGoal{Type: model.GoalTargetWords, Target: 2},
		MaxSkips:       1,
		PenaltyPerSkip: 1,
		RoundSeconds:   5,
	}
	s.Require().NoError(e.StartMatch(cfg, []model.TeamName{"T"}, 0))
	s.Require().NoError(e.StartTurn())

	s.Require().NoError(e.Skip())
	st := e.State().(model.TurnActiveState)
	s.Equal(-1, st.Score)
	s.Equal(0, st.SkipsRemaining)

	s.Require().NoError(e.Correct())
	st = e.State().(model.TurnActiveState)
	s.Equal(0, st.Score)
	s.Equal(1, st.RemainingToGoal)

	for i := 0; i < 5; i++ {
		s.clock.Tick()
	}
	s.Require().Eventually(func() bool {
		return e.State().Kind() == model.StateTurnFinished
	}, 2*time.Second, 5*time.Millisecond)

	s.Require().NoError(e.OverrideOutcome(0, true))
	fin := e.State().(model.TurnFinishedState)
	s.Equal(2, fin.Scores["T"])
	s.Equal(2, fin.DeltaScore)
	s.True(fin.MatchOver)
}

// Rotation

func (s *EngineSuite) TestTeamRotation() {
	teams := []model.TeamName{"red", "blue", "green"}
	pool := make([]string, 20)
	for i := range pool {
		pool[i] = fmt.Sprintf("w%d", i+1)
	}
	e := s.newEngine(pool)
	defer e.Close()
	cfg := wordsConfig(100)
	cfg.RoundSeconds = 1
	s.Require().NoError(e.StartMatch(cfg, teams, 1))

	var visited []model.TeamName
	var remaining []int
	for i := 0; i < 7; i++ {
		pending := e.State().(model.TurnPendingState)
		visited = append(visited, pending.Team)
		remaining = append(remaining, pending.RemainingToGoal)
		s.Require().NoError(e.StartTurn())
		s.Require().NoError(e.Correct())
		s.clock.Tick()
		s.Require().Eventually(func() bool {
			return e.State().Kind() == model.StateTurnFinished
		}, 2*time.Second, 5*time.Millisecond)
		s.Require().NoError(e.NextTurn())
	}

	s.Equal([]model.TeamName{"red", "blue", "green", "red", "blue", "green", "red"}, visited)
	s.Equal([]int{100, 99, 98, 97, 96, 95, 94}, remaining)
}

// Determinism

func (s *EngineSuite) play(e *Engine) []model.GameState {
	var states []model.GameState
	record := func() { states = append(states, e.State()) }

	s.Require().NoError(e.StartMatch(wordsConfig(4), []model.TeamName{"red", "blue"}, 1234))
	record()
	s.Require().NoError(e.StartTurn())
	record()
	s.Require().NoError(e.Correct())
	record()
	s.Require().NoError(e.Skip())
	record()
	s.Require().NoError(e.Correct())
	record()
	return states
}

func (s *EngineSuite) TestDeterministicForSameSeed() {
	pool := []string{"apple", "banana", "cherry", "date", "elder", "fig", "grape", "hazel"}
	e1 := s.newEngine(pool)
	defer e1.Close()
	e2 := s.newEngine(pool)
	defer e2.Close()

	s.Equal(s.play(e1), s.play(e2))
}

// Peek

func (s *EngineSuite) TestPeekNeverConsumes() {
	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	first, _ := s.engine.PeekNextWord()
	for i := 0; i < 10; i++ {
		w, ok := s.engine.PeekNextWord()
		s.True(ok)
		s.Equal(first, w)
	}
	s.Require().NoError(s.engine.StartTurn())
	s.Equal(first, s.active().Word)

	second, _ := s.engine.PeekNextWord()
	_, _ = s.engine.PeekNextWord()
	s.Require().NoError(s.engine.Skip())
	s.Equal(second, s.active().Word)
}

// Observation

func (s *EngineSuite) TestSubscribersSeeLatestState() {
	ch, cancel := s.engine.Subscribe()
	defer cancel()
	s.Equal(model.StateIdle, (<-ch).Kind())

	s.Require().NoError(s.engine.StartMatch(wordsConfig(5), []model.TeamName{"red"}, 1))
	s.Require().NoError(s.engine.StartTurn())

	st := <-ch
	s.Equal(model.StateTurnActive, st.Kind())

	late, lateCancel := s.engine.Subscribe()
	defer lateCancel()
	s.Equal(model.StateTurnActive, (<-late).Kind())
}
