package model

import "time"

// MatchRecord is the persisted description of a match
type MatchRecord struct {
	ID          MatchID
	Config      MatchConfig
	Teams       []TeamName
	Seed        uint64
	HostKeyHash string // bcrypt hash; the plaintext key is only returned at creation
	Finished    bool
	FinalScores Scores // Set once the match reaches MatchFinished
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TurnRecord is the persisted result of one finished turn
type TurnRecord struct {
	Number     int // 1-indexed within the match
	Team       TeamName
	DeltaScore int
	Outcomes   []TurnOutcome
	MatchOver  bool
	FinishedAt time.Time
	UpdatedAt  time.Time // Differs from FinishedAt after an override
}

// CorrectCount returns the number of correct outcomes in the turn
func (t *TurnRecord) CorrectCount() int {
	n := 0
	for _, o := range t.Outcomes {
		if o.Correct {
			n++
		}
	}
	return n
}
