package drill

// Messages emitted by the Controller for the UI event loop.

// Event is any controller notification.
type Event interface{}

// PlayingMsg indicates a play-start of the current clip.
type PlayingMsg struct {
	Index  int   // queue position
	Word   Word  // the word being played
	Voice  Voice // resolved voice
	Repeat int   // 1-based play number
	Of     int   // configured repeat count
}

// PlaybackCompleteMsg indicates the repeat sequence for a word finished.
type PlaybackCompleteMsg struct {
	Index int
	Word  Word
}

// WordChangedMsg indicates the cursor moved to a new word.
type WordChangedMsg struct {
	Index int
	Word  Word
}

// StateChangedMsg indicates a playback state transition.
type StateChangedMsg struct {
	State StateType
}

// AutoPlayMsg indicates auto-play was switched on or off.
type AutoPlayMsg struct {
	Enabled bool
	Reason  string
}

// PlayerBlockedMsg indicates the audio output could not start and the user
// must intervene (no usable output device).
type PlayerBlockedMsg struct {
	Err error
}

// PlaybackErrorMsg indicates a non-fatal playback failure.
type PlaybackErrorMsg struct {
	Index int
	Word  Word
	Err   error
}
