package model

// StateKind names a GameState variant
type StateKind string

const (
	StateIdle          StateKind = "idle"
	StateTurnPending   StateKind = "turn_pending"
	StateTurnActive    StateKind = "turn_active"
	StateTurnFinished  StateKind = "turn_finished"
	StateMatchFinished StateKind = "match_finished"
)

// GameState is one of IdleState, TurnPendingState, TurnActiveState,
// TurnFinishedState or MatchFinishedState.
// States are snapshots: holders may read them freely but must not mutate them.
type GameState interface {
	Kind() StateKind
	isGameState()
}

// IdleState means no match has been started
type IdleState struct{}

// TurnPendingState means a team is about to play
type TurnPendingState struct {
	Team            TeamName
	Scores          Scores
	Goal            MatchGoal
	RemainingToGoal int
}

// TurnActiveState means a turn is live and Word is being described
type TurnActiveState struct {
	Team            TeamName
	Word            string
	Goal            MatchGoal
	RemainingToGoal int
	Score           int
	SkipsRemaining  int
	TimeRemaining   int // Seconds
	TotalSeconds    int
}

// TurnFinishedState means a turn just ended; its outcomes may still be overridden
type TurnFinishedState struct {
	Team       TeamName
	DeltaScore int
	Scores     Scores
	Outcomes   []TurnOutcome
	MatchOver  bool
}

// MatchFinishedState is terminal
type MatchFinishedState struct {
	Scores Scores
}

func (IdleState) Kind() StateKind          { return StateIdle }
func (TurnPendingState) Kind() StateKind   { return StateTurnPending }
func (TurnActiveState) Kind() StateKind    { return StateTurnActive }
func (TurnFinishedState) Kind() StateKind  { return StateTurnFinished }
func (MatchFinishedState) Kind() StateKind { return StateMatchFinished }

func (IdleState) isGameState()          {}
func (TurnPendingState) isGameState()   {}
func (TurnActiveState) isGameState()    {}
func (TurnFinishedState) isGameState()  {}
func (MatchFinishedState) isGameState() {}
