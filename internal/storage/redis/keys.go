package redis

import (
	"fmt"

	"github.com/mcoot/wordrush/internal/model"
)

// Key prefix for all wordrush data
const keyPrefix = "wordrush"

// matchKey returns the Redis key for a MatchRecord
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// turnsKey returns the Redis key for the HASH of turn number -> TurnRecord
func turnsKey(id model.MatchID) string {
	return fmt.Sprintf("%s:turns:%s", keyPrefix, id)
}

// wordsKey returns the Redis key for the word pool LIST
func wordsKey() string {
	return fmt.Sprintf("%s:words", keyPrefix)
}
