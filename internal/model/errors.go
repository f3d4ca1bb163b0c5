package model

import "errors"

// Common errors used across the application
var (
	// Engine errors
	ErrInvalidCommand    = errors.New("command not valid in current state")
	ErrOutcomeOutOfRange = errors.New("outcome index out of range")
	ErrInvalidConfig     = errors.New("invalid match config")
	ErrInvalidTeams      = errors.New("invalid team list")
	ErrUnknownTeam       = errors.New("unknown team")
	ErrMatchClosed       = errors.New("match is closed")

	// Match errors
	ErrMatchNotFound  = errors.New("match not found")
	ErrInvalidHostKey = errors.New("invalid host key")
	ErrTurnNotFound   = errors.New("turn not found")

	// Word errors
	ErrNoWords        = errors.New("no words available")
	ErrWordsNotLoaded = errors.New("word pool not loaded")
)
