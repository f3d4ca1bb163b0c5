package storage

import (
	"context"

	"github.com/mcoot/wordrush/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Match operations
	SaveMatch(ctx context.Context, match *model.MatchRecord) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error

	// Turn history operations. SaveTurn replaces any turn with the same number.
	SaveTurn(ctx context.Context, matchID model.MatchID, turn *model.TurnRecord) error
	GetTurn(ctx context.Context, matchID model.MatchID, number int) (*model.TurnRecord, error)
	ListTurns(ctx context.Context, matchID model.MatchID) ([]*model.TurnRecord, error)

	// Word pool operations
	GetWords(ctx context.Context) ([]string, error)
	SaveWords(ctx context.Context, words []string) error
}
