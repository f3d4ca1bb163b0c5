package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
	"github.com/mcoot/wordrush/internal/dependencies/random"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/engine"
	"github.com/mcoot/wordrush/internal/storage"
)

const (
	// MatchIDLength is the length of generated match IDs
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match IDs (avoid confusing chars)
	MatchIDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

	// HostKeyLength is the length of generated host keys
	HostKeyLength = 32
	// HostKeyAlphabet is the characters used in host keys
	HostKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// WordSource supplies the word pool for new matches
type WordSource interface {
	Pool() ([]string, error)
}

// Notifier receives match events for delivery to observers
type Notifier interface {
	Notify(event model.Event)
}

// Config holds configuration for the match controller
type Config struct {
	// HostKeyCost is the bcrypt cost used to hash host keys
	HostKeyCost int
}

// DefaultConfig returns default match controller configuration
func DefaultConfig() Config {
	return Config{
		HostKeyCost: bcrypt.DefaultCost,
	}
}

// CreateParams describes a new match
type CreateParams struct {
	Config model.MatchConfig
	Teams  []model.TeamName
	Seed   *uint64 // Drawn at random when nil
}

// Created is returned once from CreateMatch. HostKey is never stored in plaintext.
type Created struct {
	Match   *model.MatchRecord
	HostKey string
	State   model.GameState
}

// Controller runs many concurrent matches, each with its own engine, and
// records their turn history
type Controller struct {
	storage  storage.Storage
	words    WordSource
	clock    clock.Clock
	random   random.Random
	notifier Notifier
	logger   *slog.Logger
	cfg      Config

	mu       sync.RWMutex
	sessions map[model.MatchID]*session
}

// session is one live match. mu serializes commands with history recording so
// every state the engine publishes is observed in order.
type session struct {
	id     model.MatchID
	engine *engine.Engine
	done   chan struct{}

	mu         sync.Mutex
	record     *model.MatchRecord
	last       model.GameState
	turnNumber int
	inFinished bool
	recorded   map[int]model.TurnRecord
}

// NewController creates a new match Controller
func NewController(
	storage storage.Storage,
	words WordSource,
	clock clock.Clock,
	random random.Random,
	notifier Notifier,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if cfg.HostKeyCost == 0 {
		cfg.HostKeyCost = DefaultConfig().HostKeyCost
	}
	return &Controller{
		storage:  storage,
		words:    words,
		clock:    clock,
		random:   random,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "match")),
		cfg:      cfg,
		sessions: make(map[model.MatchID]*session),
	}
}

// CreateMatch starts a new match and returns its host key
func (c *Controller) CreateMatch(ctx context.Context, params CreateParams) (*Created, error) {
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateTeams(params.Teams); err != nil {
		return nil, err
	}

	pool, err := c.words.Pool()
	if err != nil {
		return nil, err
	}

	id, err := c.generateID(ctx)
	if err != nil {
		return nil, err
	}

	hostKey := c.random.String(HostKeyLength, HostKeyAlphabet)
	hash, err := bcrypt.GenerateFromPassword([]byte(hostKey), c.cfg.HostKeyCost)
	if err != nil {
		return nil, err
	}

	seed := c.seed(params.Seed)
	now := c.clock.Now()
	record := &model.MatchRecord{
		ID:          id,
		Config:      params.Config,
		Teams:       append([]model.TeamName(nil), params.Teams...),
		Seed:        seed,
		HostKeyHash: string(hash),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	eng := engine.New(context.Background(), pool, engine.Deps{Clock: c.clock, Logger: c.logger.With(slog.String("match_id", string(id)))})
	if err := eng.StartMatch(record.Config, record.Teams, seed); err != nil {
		eng.Close()
		return nil, err
	}

	if err := c.storage.SaveMatch(ctx, record); err != nil {
		eng.Close()
		return nil, err
	}

	sess := &session{
		id:       id,
		engine:   eng,
		done:     make(chan struct{}),
		record:   record,
		recorded: make(map[int]model.TurnRecord),
	}

	c.mu.Lock()
	c.sessions[id] = sess
	c.mu.Unlock()

	c.notify(model.Event{Type: model.EventMatchStarted, MatchID: id})

	sess.mu.Lock()
	c.observe(ctx, sess)
	state := sess.last
	sess.mu.Unlock()

	states, _ := eng.Subscribe()
	go c.runRecorder(sess, states)

	c.logger.Info("match created",
		slog.String("match_id", string(id)),
		slog.Int("team_count", len(record.Teams)),
		slog.Int("word_count", len(pool)),
	)

	return &Created{Match: cloneRecord(record), HostKey: hostKey, State: state}, nil
}

// RestartMatch starts the match over with the same config, teams and host key
// and a fresh seed. The previous turn history is discarded.
func (c *Controller) RestartMatch(ctx context.Context, id model.MatchID) (model.GameState, error) {
	sess, err := c.liveSession(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	c.observe(ctx, sess)

	seed := c.random.Uint64()
	if err := sess.engine.StartMatch(sess.record.Config, sess.record.Teams, seed); err != nil {
		return nil, err
	}

	sess.record.Seed = seed
	sess.record.Finished = false
	sess.record.FinalScores = nil
	sess.record.UpdatedAt = c.clock.Now()
	sess.turnNumber = 0
	sess.inFinished = false
	sess.recorded = make(map[int]model.TurnRecord)

	// Dropping the match also drops its turns
	if err := c.storage.DeleteMatch(ctx, id); err != nil {
		c.logger.Error("failed to clear match history", slog.String("match_id", string(id)), slog.Any("error", err))
	}
	c.saveRecord(ctx, sess)

	c.logger.Info("match restarted", slog.String("match_id", string(id)))
	c.notify(model.Event{Type: model.EventMatchStarted, MatchID: id})

	// Observers always get the restarted state, even if it matches the last one seen
	sess.last = nil
	c.observe(ctx, sess)
	return sess.last, nil
}

// StartTurn begins the pending team's turn
func (c *Controller) StartTurn(ctx context.Context, id model.MatchID) (model.GameState, error) {
	return c.command(ctx, id, (*engine.Engine).StartTurn)
}

// Correct records the current word as guessed
func (c *Controller) Correct(ctx context.Context, id model.MatchID) (model.GameState, error) {
	return c.command(ctx, id, (*engine.Engine).Correct)
}

// Skip passes on the current word
func (c *Controller) Skip(ctx context.Context, id model.MatchID) (model.GameState, error) {
	return c.command(ctx, id, (*engine.Engine).Skip)
}

// NextTurn acknowledges the finished turn
func (c *Controller) NextTurn(ctx context.Context, id model.MatchID) (model.GameState, error) {
	return c.command(ctx, id, (*engine.Engine).NextTurn)
}

// Override corrects one outcome of the finished turn
func (c *Controller) Override(ctx context.Context, id model.MatchID, index int, correct bool) (model.GameState, error) {
	return c.command(ctx, id, func(e *engine.Engine) error {
		return e.OverrideOutcome(index, correct)
	})
}

func (c *Controller) command(ctx context.Context, id model.MatchID, cmd func(*engine.Engine) error) (model.GameState, error) {
	sess, err := c.liveSession(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Catch up on anything the timer did since the last observation
	c.observe(ctx, sess)

	if err := cmd(sess.engine); err != nil {
		return nil, err
	}

	c.observe(ctx, sess)
	return sess.last, nil
}

// State returns the current state of a live match
func (c *Controller) State(ctx context.Context, id model.MatchID) (model.GameState, error) {
	sess, err := c.liveSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.engine.State(), nil
}

// PeekNextWord returns the next word without consuming it
func (c *Controller) PeekNextWord(ctx context.Context, id model.MatchID) (string, bool, error) {
	sess, err := c.liveSession(ctx, id)
	if err != nil {
		return "", false, err
	}
	word, ok := sess.engine.PeekNextWord()
	return word, ok, nil
}

// Subscribe streams a live match's states (latest wins)
func (c *Controller) Subscribe(ctx context.Context, id model.MatchID) (<-chan model.GameState, func(), error) {
	sess, err := c.liveSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.engine.Subscribe()
	return ch, cancel, nil
}

// GetMatch returns the stored match record. Closed matches remain readable.
func (c *Controller) GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	if sess, err := c.session(id); err == nil {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return cloneRecord(sess.record), nil
	}
	return c.storage.GetMatch(ctx, id)
}

// IsLive returns whether the match has a running engine
func (c *Controller) IsLive(id model.MatchID) bool {
	_, err := c.session(id)
	return err == nil
}

// VerifyHostKey checks a host key against the stored hash
func (c *Controller) VerifyHostKey(ctx context.Context, id model.MatchID, key string) error {
	record, err := c.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	if key == "" {
		return model.ErrInvalidHostKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.HostKeyHash), []byte(key)); err != nil {
		return model.ErrInvalidHostKey
	}
	return nil
}

// History returns the recorded turns of a match in order
func (c *Controller) History(ctx context.Context, id model.MatchID) ([]*model.TurnRecord, error) {
	if _, err := c.GetMatch(ctx, id); err != nil {
		return nil, err
	}
	return c.storage.ListTurns(ctx, id)
}

// CloseMatch stops a live match. Its record and history stay in storage.
func (c *Controller) CloseMatch(ctx context.Context, id model.MatchID) error {
	c.mu.Lock()
	sess, ok := c.sessions[id]
	if ok {
		delete(c.sessions, id)
	}
	c.mu.Unlock()
	if !ok {
		if _, err := c.storage.GetMatch(ctx, id); err == nil {
			return fmt.Errorf("%w: %s", model.ErrMatchClosed, id)
		}
		return model.ErrMatchNotFound
	}

	sess.mu.Lock()
	c.observe(ctx, sess)
	sess.mu.Unlock()

	sess.engine.Close()
	<-sess.done

	c.logger.Info("match closed", slog.String("match_id", string(id)))
	c.notify(model.Event{Type: model.EventMatchClosed, MatchID: id})
	return nil
}

// Close stops every live match
func (c *Controller) Close(ctx context.Context) {
	c.mu.RLock()
	ids := make([]model.MatchID, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	for _, id := range ids {
		err := c.CloseMatch(ctx, id)
		if err != nil && !errors.Is(err, model.ErrMatchNotFound) && !errors.Is(err, model.ErrMatchClosed) {
			c.logger.Error("failed to close match", slog.String("match_id", string(id)), slog.Any("error", err))
		}
	}
}

// LiveCount returns the number of running matches
func (c *Controller) LiveCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *Controller) session(id model.MatchID) (*session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sess, ok := c.sessions[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return sess, nil
}

// liveSession returns a running session, or ErrMatchClosed if the match only
// exists in storage
func (c *Controller) liveSession(ctx context.Context, id model.MatchID) (*session, error) {
	sess, err := c.session(id)
	if err == nil {
		return sess, nil
	}
	if _, serr := c.storage.GetMatch(ctx, id); serr == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrMatchClosed, id)
	}
	return nil, err
}

// runRecorder observes timer-driven changes until the engine closes
func (c *Controller) runRecorder(sess *session, states <-chan model.GameState) {
	defer close(sess.done)
	for range states {
		sess.mu.Lock()
		c.observe(context.Background(), sess)
		sess.mu.Unlock()
	}
}

// observe records the engine's current state if it differs from the last one
// seen. Callers hold sess.mu. Storage failures are logged and never returned.
func (c *Controller) observe(ctx context.Context, sess *session) {
	state := sess.engine.State()
	if reflect.DeepEqual(state, sess.last) {
		return
	}
	sess.last = state

	switch st := state.(type) {
	case model.TurnFinishedState:
		if !sess.inFinished {
			sess.inFinished = true
			sess.turnNumber++
		}
		c.saveTurn(ctx, sess, st)
	case model.MatchFinishedState:
		sess.inFinished = false
		sess.record.Finished = true
		sess.record.FinalScores = st.Scores.Clone()
		sess.record.UpdatedAt = c.clock.Now()
		c.saveRecord(ctx, sess)
		c.logger.Info("match finished", slog.String("match_id", string(sess.id)), slog.Any("scores", st.Scores))
	default:
		sess.inFinished = false
	}

	c.notify(model.Event{Type: model.EventStateChanged, MatchID: sess.id, State: state})
	if _, ok := state.(model.MatchFinishedState); ok {
		c.notify(model.Event{Type: model.EventMatchFinished, MatchID: sess.id, State: state})
	}
}

func (c *Controller) saveTurn(ctx context.Context, sess *session, st model.TurnFinishedState) {
	now := c.clock.Now()
	turn := model.TurnRecord{
		Number:     sess.turnNumber,
		Team:       st.Team,
		DeltaScore: st.DeltaScore,
		Outcomes:   model.CloneOutcomes(st.Outcomes),
		MatchOver:  st.MatchOver,
		FinishedAt: now,
		UpdatedAt:  now,
	}
	if prev, ok := sess.recorded[turn.Number]; ok {
		turn.FinishedAt = prev.FinishedAt
	}
	sess.recorded[turn.Number] = turn

	if err := c.storage.SaveTurn(ctx, sess.id, &turn); err != nil {
		c.logger.Error("failed to save turn",
			slog.String("match_id", string(sess.id)),
			slog.Int("turn", turn.Number),
			slog.Any("error", err))
		return
	}
	c.notify(model.Event{Type: model.EventTurnRecorded, MatchID: sess.id, Turn: &turn})
}

func (c *Controller) saveRecord(ctx context.Context, sess *session) {
	if err := c.storage.SaveMatch(ctx, sess.record); err != nil {
		c.logger.Error("failed to save match", slog.String("match_id", string(sess.id)), slog.Any("error", err))
	}
}

func (c *Controller) notify(event model.Event) {
	if c.notifier == nil {
		return
	}
	event.Timestamp = c.clock.Now()
	c.notifier.Notify(event)
}

func (c *Controller) seed(requested *uint64) uint64 {
	if requested != nil {
		return *requested
	}
	return c.random.Uint64()
}

// generateID returns an ID not used by a live or stored match
func (c *Controller) generateID(ctx context.Context) (model.MatchID, error) {
	for {
		id := model.MatchID(c.random.String(MatchIDLength, MatchIDAlphabet))
		if c.IsLive(id) {
			continue
		}
		_, err := c.storage.GetMatch(ctx, id)
		if errors.Is(err, model.ErrMatchNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func cloneRecord(r *model.MatchRecord) *model.MatchRecord {
	c := *r
	c.Teams = append([]model.TeamName(nil), r.Teams...)
	if r.FinalScores != nil {
		c.FinalScores = r.FinalScores.Clone()
	}
	return &c
}
