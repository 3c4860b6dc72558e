package drill

import "errors"

// Common errors for the drill system.
var (
	// Word store and queue errors
	ErrInvalidWordList = errors.New("invalid word list")
	ErrEmptyStore      = errors.New("no words loaded")
	ErrEmptyQueue      = errors.New("no words selected")
	ErrInvalidRange    = errors.New("invalid id range")
	ErrEmptyRange      = errors.New("no words in selected range")
	ErrIndexOutOfRange = errors.New("queue index out of range")

	// Voice errors
	ErrUnknownVoice = errors.New("unknown voice")

	// Clip loading errors
	ErrClipLoadTimeout  = errors.New("clip load timed out")
	ErrClipNotReady     = errors.New("clip has no audio data")
	ErrUnsupportedAudio = errors.New("unsupported audio format")

	// Player errors
	ErrPlayerUnavailable = errors.New("audio output unavailable")
	ErrNothingToPlay     = errors.New("no clip to play")
)
