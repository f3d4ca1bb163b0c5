package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/ledger"
	"github.com/mcoot/wordrush/internal/services/scoreboard"
	"github.com/mcoot/wordrush/internal/services/statestream"
	"github.com/mcoot/wordrush/internal/services/timer"
	"github.com/mcoot/wordrush/internal/services/wordqueue"
)

// Deps holds the engine's external dependencies
type Deps struct {
	Clock  clock.Clock
	Logger *slog.Logger
}

// Engine is the match/turn state machine.
//
// Commands are expected from a single caller at a time, but the turn timer
// runs in its own goroutine, so all state is guarded by mu. State changes are
// published to a statestream that can be read from any goroutine.
type Engine struct {
	words  []string
	clock  clock.Clock
	logger *slog.Logger
	stream *statestream.Stream[model.GameState]

	mu      sync.Mutex
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	state   model.GameState
	config  model.MatchConfig
	teams   []model.TeamName
	teamIdx int
	queue   *wordqueue.Queue
	board   *scoreboard.Scoreboard
	turn    *turn

	// exhausted is set once a pull from the queue comes back empty
	exhausted bool

	// generation is bumped whenever the running countdown is cancelled.
	// Timer callbacks carry the generation they were started with and are
	// discarded if it no longer matches.
	generation uint64
	countdown  *timer.Countdown
}

// turn is the live or most recently finished turn
type turn struct {
	team           model.TeamName
	ledger         *ledger.Ledger
	word           string
	skipsRemaining int
	timeRemaining  int
	active         bool
}

// New creates an idle engine over a pre-filtered word pool.
// Cancelling ctx has the same effect as Close.
func New(ctx context.Context, words []string, deps Deps) *Engine {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(ctx)
	e := &Engine{
		words:  append([]string(nil), words...),
		clock:  clk,
		logger: logger.With(slog.String("component", "engine")),
		stream: statestream.New[model.GameState](model.IdleState{}),
		ctx:    ctx,
		cancel: cancel,
		state:  model.IdleState{},
	}
	context.AfterFunc(ctx, e.Close)
	return e
}

// State returns the latest published state
func (e *Engine) State() model.GameState {
	return e.stream.Current()
}

// Subscribe returns a channel holding the current state followed by every
// later state (latest wins), and a function to unsubscribe
func (e *Engine) Subscribe() (<-chan model.GameState, func()) {
	return e.stream.Subscribe()
}

// WordCount returns the size of the word pool
func (e *Engine) WordCount() int {
	return len(e.words)
}

// StartMatch resets the engine for a new match. It is valid from any state and
// cancels any running turn timer.
func (e *Engine) StartMatch(cfg model.MatchConfig, teams []model.TeamName, seed uint64) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := model.ValidateTeams(teams); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return model.ErrMatchClosed
	}

	e.stopTimer()
	e.config = cfg
	e.teams = append([]model.TeamName(nil), teams...)
	e.teamIdx = 0
	e.queue = wordqueue.New(e.words, seed)
	e.exhausted = false
	e.board = scoreboard.New(e.teams)
	e.turn = nil

	e.logger.Info("match started",
		slog.Int("team_count", len(teams)),
		slog.Int("word_count", len(e.words)),
		slog.String("goal", string(cfg.Goal.Type)),
		slog.Int("target", cfg.Goal.Target),
	)

	e.setState(e.pendingState())
	return nil
}

// StartTurn begins the pending team's turn
func (e *Engine) StartTurn() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.require("start turn", model.StateTurnPending); err != nil {
		return err
	}

	t := &turn{
		team:           e.currentTeam(),
		ledger:         ledger.New(),
		skipsRemaining: e.config.MaxSkips,
		timeRemaining:  e.config.RoundSeconds,
	}
	e.turn = t

	word, ok := e.pull()
	if !ok {
		e.logger.Info("turn started with empty word queue", slog.String("team", string(t.team)))
		e.finishTurn()
		return nil
	}
	t.word = word
	t.active = true

	e.startTimer()
	e.logger.Info("turn started",
		slog.String("team", string(t.team)),
		slog.Int("seconds", e.config.RoundSeconds),
	)
	e.setState(e.activeState())
	return nil
}

// Correct records the current word as guessed
func (e *Engine) Correct() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.require("correct", model.StateTurnActive); err != nil {
		return err
	}

	t := e.turn
	t.ledger.Append(model.TurnOutcome{Word: t.word, Correct: true, Timestamp: e.clock.Now()})
	if err := e.apply(t.team, 1, 1); err != nil {
		return err
	}

	e.advanceWord()
	return nil
}

// Skip passes on the current word. It is ignored once the skip budget is spent.
func (e *Engine) Skip() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.require("skip", model.StateTurnActive); err != nil {
		return err
	}

	t := e.turn
	if t.skipsRemaining <= 0 {
		return nil
	}

	t.ledger.Append(model.TurnOutcome{Word: t.word, Skipped: true, Timestamp: e.clock.Now()})
	t.skipsRemaining--
	if err := e.apply(t.team, -e.config.PenaltyPerSkip, 0); err != nil {
		return err
	}

	e.advanceWord()
	return nil
}

// NextTurn acknowledges a finished turn and moves to the next team, or ends
// the match if the finished turn reached the goal
func (e *Engine) NextTurn() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.require("next turn", model.StateTurnFinished); err != nil {
		return err
	}

	if e.matchOver() {
		scores := e.board.Scores()
		e.logger.Info("match finished", slog.Any("scores", scores))
		e.setState(model.MatchFinishedState{Scores: scores})
		return nil
	}

	e.teamIdx = (e.teamIdx + 1) % len(e.teams)
	e.turn = nil
	e.setState(e.pendingState())
	return nil
}

// OverrideOutcome corrects one outcome of the turn that just finished and
// recomputes the turn delta, the team's score, and whether the match is over
func (e *Engine) OverrideOutcome(index int, correct bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.require("override outcome", model.StateTurnFinished); err != nil {
		return err
	}

	t := e.turn
	penalty := e.config.PenaltyPerSkip
	oldDelta := t.ledger.NetDelta(penalty)
	oldCorrect := t.ledger.CorrectCount()

	if err := t.ledger.Override(index, correct); err != nil {
		return err
	}

	newDelta := t.ledger.NetDelta(penalty)
	newCorrect := t.ledger.CorrectCount()
	if err := e.apply(t.team, newDelta-oldDelta, newCorrect-oldCorrect); err != nil {
		return err
	}

	e.logger.Info("outcome overridden",
		slog.String("team", string(t.team)),
		slog.Int("index", index),
		slog.Bool("correct", correct),
		slog.Int("old_delta", oldDelta),
		slog.Int("new_delta", newDelta),
	)

	e.setState(e.finishedState())
	return nil
}

// PeekNextWord returns the next word in the queue without consuming it
func (e *Engine) PeekNextWord() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.queue == nil {
		return "", false
	}
	return e.queue.Peek()
}

// Close cancels any running timer and closes all subscriptions.
// Every later command fails with model.ErrMatchClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.stopTimer()
	e.mu.Unlock()

	e.cancel()
	e.stream.Close()
}

// require checks the engine is open and in the given state
func (e *Engine) require(command string, kind model.StateKind) error {
	if e.closed {
		return model.ErrMatchClosed
	}
	if e.state.Kind() != kind {
		return fmt.Errorf("%w: %s from %s", model.ErrInvalidCommand, command, e.state.Kind())
	}
	return nil
}

// apply adds a score delta and correct-count delta to a team
func (e *Engine) apply(team model.TeamName, delta, correct int) error {
	if _, err := e.board.ApplyDelta(team, delta); err != nil {
		return err
	}
	return e.board.AddCorrect(team, correct)
}

// advanceWord ends the turn if the goal is reached or the queue is empty,
// otherwise serves the next word
func (e *Engine) advanceWord() {
	t := e.turn
	if e.goalReached() {
		e.finishTurn()
		return
	}

	word, ok := e.pull()
	if !ok {
		e.finishTurn()
		return
	}
	t.word = word
	e.setState(e.activeState())
}

// expire handles the countdown reaching zero
func (e *Engine) expire(generation uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation || e.turn == nil || !e.turn.active {
		e.logger.Debug("stale timer expiry discarded")
		return
	}

	t := e.turn
	t.timeRemaining = 0
	t.ledger.Append(model.TurnOutcome{Word: t.word, Timestamp: e.clock.Now()})
	e.finishTurn()
}

// tick handles one elapsed second
func (e *Engine) tick(generation uint64, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation || e.turn == nil || !e.turn.active {
		e.logger.Debug("stale timer tick discarded", slog.Int("remaining", remaining))
		return
	}

	e.turn.timeRemaining = remaining
	e.setState(e.activeState())
}

func (e *Engine) finishTurn() {
	e.stopTimer()
	t := e.turn
	t.active = false
	t.word = ""

	state := e.finishedState()
	e.logger.Info("turn finished",
		slog.String("team", string(t.team)),
		slog.Int("delta", state.DeltaScore),
		slog.Int("outcomes", len(state.Outcomes)),
		slog.Bool("match_over", state.MatchOver),
	)
	e.setState(state)
}

func (e *Engine) startTimer() {
	generation := e.generation
	e.countdown = timer.Start(e.ctx, e.clock, e.config.RoundSeconds,
		func(remaining int) { e.tick(generation, remaining) },
		func() { e.expire(generation) },
	)
}

// stopTimer cancels the running countdown, if any, and invalidates its callbacks
func (e *Engine) stopTimer() {
	e.generation++
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
}

func (e *Engine) currentTeam() model.TeamName {
	return e.teams[e.teamIdx]
}

// pull takes the next word, remembering when the queue has run dry
func (e *Engine) pull() (string, bool) {
	word, ok := e.queue.Next()
	if !ok {
		e.exhausted = true
	}
	return word, ok
}

func (e *Engine) goalReached() bool {
	return e.config.Goal.Reached(e.board.Progress(e.config.Goal))
}

// matchOver is recomputed on every call so ledger overrides can flip it either way
func (e *Engine) matchOver() bool {
	return e.goalReached() || e.exhausted
}

func (e *Engine) remaining() int {
	return e.config.Goal.Remaining(e.board.Progress(e.config.Goal))
}

func (e *Engine) pendingState() model.TurnPendingState {
	team := e.currentTeam()
	return model.TurnPendingState{
		Team:            team,
		Scores:          e.board.Scores(),
		Goal:            e.config.Goal,
		RemainingToGoal: e.remaining(),
	}
}

func (e *Engine) activeState() model.TurnActiveState {
	t := e.turn
	return model.TurnActiveState{
		Team:            t.team,
		Word:            t.word,
		Goal:            e.config.Goal,
		RemainingToGoal: e.remaining(),
		Score:           e.board.Score(t.team),
		SkipsRemaining:  t.skipsRemaining,
		TimeRemaining:   t.timeRemaining,
		TotalSeconds:    e.config.RoundSeconds,
	}
}

func (e *Engine) finishedState() model.TurnFinishedState {
	t := e.turn
	return model.TurnFinishedState{
		Team:       t.team,
		DeltaScore: t.ledger.NetDelta(e.config.PenaltyPerSkip),
		Scores:     e.board.Scores(),
		Outcomes:   t.ledger.Outcomes(),
		MatchOver:  e.matchOver(),
	}
}

func (e *Engine) setState(s model.GameState) {
	e.state = s
	e.stream.Publish(s)
}
