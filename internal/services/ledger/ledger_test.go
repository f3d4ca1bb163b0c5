package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordrush/internal/model"
)

type LedgerSuite struct {
	suite.Suite
	ledger *Ledger
	now    time.Time
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ledger = New()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *LedgerSuite) correct(word string) {
	s.ledger.Append(model.TurnOutcome{Word: word, Correct: true, Timestamp: s.now})
}

func (s *LedgerSuite) skipped(word string) {
	s.ledger.Append(model.TurnOutcome{Word: word, Skipped: true, Timestamp: s.now})
}

func (s *LedgerSuite) pending(word string) {
	s.ledger.Append(model.TurnOutcome{Word: word, Timestamp: s.now})
}

func (s *LedgerSuite) TestEmptyLedger() {
	s.Equal(0, s.ledger.NetDelta(2))
	s.Equal(0, s.ledger.CorrectCount())
	s.Empty(s.ledger.Outcomes())
}

func (s *LedgerSuite) TestNetDelta() {
	s.correct("a")
	s.correct("b")
	s.skipped("c")
	s.pending("d")

	s.Equal(2-2, s.ledger.NetDelta(2))
	s.Equal(2-1, s.ledger.NetDelta(1))
	s.Equal(2, s.ledger.NetDelta(0))
	s.Equal(2, s.ledger.CorrectCount())
}

func (s *LedgerSuite) TestOverrideSkipToCorrect() {
	s.skipped("a")
	s.correct("b")
	before := s.ledger.NetDelta(1)

	s.Require().NoError(s.ledger.Override(0, true))

	s.Equal(before+2, s.ledger.NetDelta(1))
	s.True(s.ledger.Outcomes()[0].Correct)
	s.False(s.ledger.Outcomes()[0].Skipped)
}

func (s *LedgerSuite) TestOverridePendingBecomesResolved() {
	s.pending("a")

	s.Require().NoError(s.ledger.Override(0, false))
	o := s.ledger.Outcomes()[0]
	s.True(o.Skipped)
	s.False(o.Pending())

	s.Require().NoError(s.ledger.Override(0, true))
	o = s.ledger.Outcomes()[0]
	s.True(o.Correct)
	s.False(o.Pending())
}

func (s *LedgerSuite) TestOverrideOutOfRangeLeavesLedgerUnchanged() {
	s.correct("a")
	before := s.ledger.Outcomes()

	s.ErrorIs(s.ledger.Override(1, false), model.ErrOutcomeOutOfRange)
	s.ErrorIs(s.ledger.Override(-1, false), model.ErrOutcomeOutOfRange)

	s.Equal(before, s.ledger.Outcomes())
}

func (s *LedgerSuite) TestOutcomesIsACopy() {
	s.correct("a")
	out := s.ledger.Outcomes()
	out[0].Correct = false

	s.True(s.ledger.Outcomes()[0].Correct)
}
