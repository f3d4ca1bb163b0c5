package wordqueue

import "math/rand/v2"

// pcgStream is the fixed second PCG word; only the seed varies between matches
const pcgStream = 0x9E3779B97F4A7C15

// Queue holds a match's words in a fixed shuffled order
type Queue struct {
	words []string
	head  int
}

// New shuffles a copy of words with a PRNG seeded from seed.
// The same (words, seed) pair always produces the same order.
func New(words []string, seed uint64) *Queue {
	shuffled := make([]string, len(words))
	copy(shuffled, words)

	rng := rand.New(rand.NewPCG(seed, pcgStream))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &Queue{words: shuffled}
}

// Next removes and returns the head word; false means the queue is empty
func (q *Queue) Next() (string, bool) {
	if q.head >= len(q.words) {
		return "", false
	}
	word := q.words[q.head]
	q.head++
	return word, true
}

// Peek returns the head word without removing it
func (q *Queue) Peek() (string, bool) {
	if q.head >= len(q.words) {
		return "", false
	}
	return q.words[q.head], true
}

// Len returns the number of words not yet consumed
func (q *Queue) Len() int {
	return len(q.words) - q.head
}

// Order returns the full shuffled order, including consumed words
func (q *Queue) Order() []string {
	out := make([]string, len(q.words))
	copy(out, q.words)
	return out
}
