package audio

import (
	"sync"

	"github.com/yamanq/mufradat/drill"
)

// MockPlayer implements drill.AudioPlayer for tests. Playback does not run
// on a clock: tests drive completion explicitly with Finish, so repeat and
// auto-advance sequences can be stepped deterministically.
type MockPlayer struct {
	mu      sync.Mutex
	playing bool
	done    func()

	playError error
	history   []PlayEvent
}

// PlayEvent records one play-start for verification.
type PlayEvent struct {
	WordID int
	Voice  drill.Voice
	Path   string
}

// NewMockPlayer creates a mock audio output.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// FailWith makes subsequent Play calls return err.
func (mp *MockPlayer) FailWith(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playError = err
}

// Play records the play-start and holds the completion callback until
// Finish is called.
func (mp *MockPlayer) Play(clip *drill.Clip, done func()) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.playError != nil {
		return mp.playError
	}
	if clip == nil {
		return drill.ErrNothingToPlay
	}

	mp.playing = true
	mp.done = done
	mp.history = append(mp.history, PlayEvent{WordID: clip.WordID, Voice: clip.Voice, Path: clip.Path})
	return nil
}

// Stop drops the pending completion callback without invoking it.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.playing = false
	mp.done = nil
	return nil
}

// IsPlaying reports whether a play is pending completion.
func (mp *MockPlayer) IsPlaying() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.playing
}

// Finish simulates the current clip reaching its end, invoking the
// completion callback. It reports whether a playback was in flight.
func (mp *MockPlayer) Finish() bool {
	mp.mu.Lock()
	done := mp.done
	mp.playing = false
	mp.done = nil
	mp.mu.Unlock()

	if done == nil {
		return false
	}
	done()
	return true
}

// History returns all recorded play-starts.
func (mp *MockPlayer) History() []PlayEvent {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	events := make([]PlayEvent, len(mp.history))
	copy(events, mp.history)
	return events
}

// PlayCount returns the number of recorded play-starts.
func (mp *MockPlayer) PlayCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.history)
}
