package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/wordrush/internal/dependencies/mocks"
	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/storage/memory"
	"github.com/mcoot/wordrush/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Match IDs and host keys come from MockRandom, so tests queue them.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, match.Config{HostKeyCost: bcrypt.MinCost}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestWords is a small word pool for tests
var TestWords = []string{
	"apple", "banana", "cherry", "dolphin", "elephant", "falcon",
	"giraffe", "harbour", "igloo", "jigsaw", "kettle", "lantern",
}

// LoadTestWords loads TestWords into the word service
func (t *TestApp) LoadTestWords(ctx context.Context) error {
	return t.WordService.LoadWords(ctx, TestWords)
}
