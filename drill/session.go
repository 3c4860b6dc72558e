package drill

import (
	"fmt"
	"sync"
)

// Session holds the full word store, the active queue (a filtered view of
// the store by inclusive id range), and the cursor position within the
// queue. The queue is rebuilt wholesale on every range selection, never
// merged incrementally. The cursor wraps at both queue ends.
type Session struct {
	mu      sync.RWMutex
	words   []Word
	queue   []Word
	cursor  int
	visited map[int]struct{} // queue indices already shown to the user
}

// NewSession creates a session over the loaded word store.
func NewSession(words []Word) *Session {
	return &Session{
		words:   words,
		visited: make(map[int]struct{}),
	}
}

// Replace swaps in a freshly loaded word store. Any active range selection
// is discarded; the caller must select a new range before drilling.
func (s *Session) Replace(words []Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = words
	s.queue = nil
	s.cursor = 0
	s.visited = make(map[int]struct{})
}

// SelectRange rebuilds the queue from words whose id falls in the
// inclusive range [start, end], preserving source order, and resets the
// cursor to 0. On error the session state is unchanged.
func (s *Session) SelectRange(start, end int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.words) == 0 {
		return ErrEmptyStore
	}
	if start > end {
		return fmt.Errorf("%w: start %d > end %d", ErrInvalidRange, start, end)
	}

	var queue []Word
	for _, w := range s.words {
		if w.ID >= start && w.ID <= end {
			queue = append(queue, w)
		}
	}
	if len(queue) == 0 {
		return fmt.Errorf("%w: [%d, %d]", ErrEmptyRange, start, end)
	}

	s.queue = queue
	s.cursor = 0
	s.visited = map[int]struct{}{0: {}}
	return nil
}

// Current returns the word at the cursor.
func (s *Session) Current() (Word, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.queue) == 0 {
		return Word{}, false
	}
	return s.queue[s.cursor], true
}

// Next advances the cursor by one, wrapping past the last index to 0.
func (s *Session) Next() (Word, bool) {
	return s.move(1)
}

// Previous moves the cursor back by one, wrapping from 0 to the last index.
func (s *Session) Previous() (Word, bool) {
	return s.move(-1)
}

func (s *Session) move(delta int) (Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.queue)
	if n == 0 {
		return Word{}, false
	}
	s.cursor = ((s.cursor+delta)%n + n) % n
	s.visited[s.cursor] = struct{}{}
	return s.queue[s.cursor], true
}

// JumpTo moves the cursor directly to the given queue index.
func (s *Session) JumpTo(index int) (Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.queue) {
		return Word{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.cursor = index
	s.visited[index] = struct{}{}
	return s.queue[index], nil
}

// AtEnd reports whether the cursor is on the last queue entry, meaning a
// further advance would wrap back to the start.
func (s *Session) AtEnd() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue) > 0 && s.cursor == len(s.queue)-1
}

// Cursor returns the current queue index.
func (s *Session) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Len returns the number of words in the active queue.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.queue)
}

// StoreLen returns the number of words in the full store.
func (s *Session) StoreLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// Queue returns a copy of the active queue.
func (s *Session) Queue() []Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	queue := make([]Word, len(s.queue))
	copy(queue, s.queue)
	return queue
}

// PrefetchWindow returns the words in the lookahead window of the given
// size: queue positions strictly after the cursor, bounded by the queue
// end, excluding positions that have already been visited. Positions at or
// before the cursor are never included.
func (s *Session) PrefetchWindow(size int) []Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var window []Word
	for i := s.cursor + 1; i <= s.cursor+size && i < len(s.queue); i++ {
		if _, seen := s.visited[i]; seen {
			continue
		}
		window = append(window, s.queue[i])
	}
	return window
}
