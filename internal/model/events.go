package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventMatchStarted  EventType = "match_started"
	EventStateChanged  EventType = "state_changed"
	EventTurnRecorded  EventType = "turn_recorded"
	EventMatchFinished EventType = "match_finished"
	EventMatchClosed   EventType = "match_closed"
)

// Event is emitted by the match service for observers outside the engine
type Event struct {
	Type      EventType
	Timestamp time.Time
	MatchID   MatchID
	State     GameState // Set for state events
	Turn      *TurnRecord
}
