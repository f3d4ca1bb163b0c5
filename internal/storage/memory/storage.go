package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	matches map[model.MatchID]*model.MatchRecord
	turns   map[model.MatchID]map[int]*model.TurnRecord
	words   []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchID]*model.MatchRecord),
		turns:   make(map[model.MatchID]map[int]*model.TurnRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = cloneMatch(match)
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return cloneMatch(match), nil
}

// DeleteMatch removes the match and its turn history
func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	delete(s.turns, id)
	return nil
}

// Turn operations

func (s *Storage) SaveTurn(ctx context.Context, matchID model.MatchID, turn *model.TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byNumber, ok := s.turns[matchID]
	if !ok {
		byNumber = make(map[int]*model.TurnRecord)
		s.turns[matchID] = byNumber
	}
	byNumber[turn.Number] = cloneTurn(turn)
	return nil
}

func (s *Storage) GetTurn(ctx context.Context, matchID model.MatchID, number int) (*model.TurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turn, ok := s.turns[matchID][number]
	if !ok {
		return nil, model.ErrTurnNotFound
	}
	return cloneTurn(turn), nil
}

// ListTurns returns the match's turns ordered by number
func (s *Storage) ListTurns(ctx context.Context, matchID model.MatchID) ([]*model.TurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byNumber := s.turns[matchID]
	turns := make([]*model.TurnRecord, 0, len(byNumber))
	for _, turn := range byNumber {
		turns = append(turns, cloneTurn(turn))
	}
	sort.Slice(turns, func(i, j int) bool { return turns[i].Number < turns[j].Number })
	return turns, nil
}

// Word pool operations

func (s *Storage) GetWords(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrWordsNotLoaded
	}
	result := make([]string, len(s.words))
	copy(result, s.words)
	return result, nil
}

func (s *Storage) SaveWords(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]string, len(words))
	copy(s.words, words)
	return nil
}

// Records are copied in and out so callers can't mutate stored state

func cloneMatch(m *model.MatchRecord) *model.MatchRecord {
	c := *m
	c.Teams = append([]model.TeamName(nil), m.Teams...)
	if m.FinalScores != nil {
		c.FinalScores = m.FinalScores.Clone()
	}
	return &c
}

func cloneTurn(t *model.TurnRecord) *model.TurnRecord {
	c := *t
	c.Outcomes = model.CloneOutcomes(t.Outcomes)
	return &c
}
