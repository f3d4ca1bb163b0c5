package words

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/storage"
)

// Service holds the word pool that matches draw from
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu     sync.RWMutex
	words  []string
	loaded bool
}

// New creates a new word service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "words")),
	}
}

// LoadFromStorage loads a previously saved word pool
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetWords(ctx)
	if err != nil {
		return err
	}
	s.set(Normalize(words))
	return nil
}

// LoadFromFile loads words from a file, one per line. Blank lines and lines
// starting with # are ignored.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	s.logger.Info("loaded word file", slog.String("path", path), slog.Int("lines", len(words)))
	return s.LoadWords(ctx, words)
}

// LoadWords normalizes words, saves them to storage and makes them the pool
func (s *Service) LoadWords(ctx context.Context, words []string) error {
	normalized := Normalize(words)
	if len(normalized) < len(words) {
		s.logger.Debug("dropped duplicate or empty words", slog.Int("dropped", len(words)-len(normalized)))
	}

	// Save to storage for future use
	if err := s.storage.SaveWords(ctx, normalized); err != nil {
		return err
	}

	s.set(normalized)
	return nil
}

func (s *Service) set(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = words
	s.loaded = true
}

// Words returns a copy of the pool in load order
func (s *Service) Words() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.words))
	copy(result, s.words)
	return result
}

// Pool returns the pool, or an error if nothing usable has been loaded
func (s *Service) Pool() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, model.ErrWordsNotLoaded
	}
	if len(s.words) == 0 {
		return nil, model.ErrNoWords
	}
	result := make([]string, len(s.words))
	copy(result, s.words)
	return result, nil
}

// Count returns the number of words in the pool
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// IsLoaded returns whether a pool has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Normalize trims and collapses whitespace, drops empty entries and removes
// duplicates. Two words are duplicates if they match ignoring case and
// accents; the first spelling seen is kept.
func Normalize(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Join(strings.Fields(w), " ")
		if w == "" {
			continue
		}
		key := Key(w)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, w)
	}
	return result
}

// Key returns the comparison form of a word: accents stripped, case folded
func Key(word string) string {
	// Transformers carry state, so build a fresh chain per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, word)
	if err != nil {
		stripped = word
	}
	return cases.Fold().String(stripped)
}
