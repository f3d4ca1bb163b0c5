package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.MatchRecord) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, matchKey(match.ID), data, s.cfg.MatchTTL).Err()
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.MatchRecord, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.MatchRecord
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

// DeleteMatch removes the match and its turn history
func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	return s.client.Del(ctx, matchKey(id), turnsKey(id)).Err()
}

// Turn operations

func (s *Storage) SaveTurn(ctx context.Context, matchID model.MatchID, turn *model.TurnRecord) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := turnsKey(matchID)

	// Use pipeline so the hash TTL is refreshed with every write
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, strconv.Itoa(turn.Number), data)
	pipe.Expire(ctx, key, s.cfg.TurnTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTurn(ctx context.Context, matchID model.MatchID, number int) (*model.TurnRecord, error) {
	data, err := s.client.HGet(ctx, turnsKey(matchID), strconv.Itoa(number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTurnNotFound
		}
		return nil, err
	}

	var turn model.TurnRecord
	if err := json.Unmarshal(data, &turn); err != nil {
		return nil, err
	}
	return &turn, nil
}

// ListTurns returns the match's turns ordered by number
func (s *Storage) ListTurns(ctx context.Context, matchID model.MatchID) ([]*model.TurnRecord, error) {
	values, err := s.client.HVals(ctx, turnsKey(matchID)).Result()
	if err != nil {
		return nil, err
	}

	turns := make([]*model.TurnRecord, 0, len(values))
	for _, val := range values {
		var turn model.TurnRecord
		if err := json.Unmarshal([]byte(val), &turn); err != nil {
			continue // Skip invalid data
		}
		turns = append(turns, &turn)
	}

	sort.Slice(turns, func(i, j int) bool { return turns[i].Number < turns[j].Number })
	return turns, nil
}

// Word pool operations

func (s *Storage) GetWords(ctx context.Context) ([]string, error) {
	key := wordsKey()

	// Check if the pool exists
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrWordsNotLoaded
	}

	// A list keeps the pool order, which seeded shuffles depend on
	return s.client.LRange(ctx, key, 0, -1).Result()
}

// SaveWords replaces the word pool. Saving an empty pool leaves it unloaded.
func (s *Storage) SaveWords(ctx context.Context, words []string) error {
	key := wordsKey()

	// Delete existing pool and add new words atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)

	if len(words) > 0 {
		members := make([]interface{}, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.RPush(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
