package statestream

import "sync"

// Stream holds the latest value and notifies subscribers of changes.
// Each subscriber channel has a single slot: an undelivered value is replaced
// by the next one, so a slow reader only ever sees the most recent value.
type Stream[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[chan T]struct{}
	closed bool
}

// New creates a stream holding initial
func New[T any](initial T) *Stream[T] {
	return &Stream[T]{
		value: initial,
		subs:  make(map[chan T]struct{}),
	}
}

// Current returns the latest published value
func (s *Stream[T]) Current() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish replaces the current value and notifies every subscriber
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	for ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel that immediately holds the current value and
// then receives every later value (latest wins). Call the returned function
// to unsubscribe; it closes the channel.
func (s *Stream[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	ch <- s.value
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { s.unsubscribe(ch) })
	}
}

// SubscriberCount returns the number of live subscribers
func (s *Stream[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close closes every subscriber channel; later publishes are dropped
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Stream[T]) unsubscribe(ch chan T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

// offer replaces whatever is waiting in the slot with v. Callers hold s.mu,
// so no other sender can fill the slot between the drain and the send.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
