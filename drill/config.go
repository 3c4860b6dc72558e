package drill

import "time"

// Config holds playback and prefetch configuration.
type Config struct {
	RepeatCount     int           // plays per word before completion (min 1)
	Interval        time.Duration // pause between words during auto-play
	AutoPlay        bool          // advance to the next word after completion
	Voice           Voice         // explicitly selected voice
	RandomVoice     bool          // derive the voice per word instead
	LookaheadSize   int           // prefetch window size
	PrefetchWorkers int           // concurrent clip loads during prefetch
	PrefetchPause   time.Duration // pause between prefetch batches
	LoadTimeout     time.Duration // soft deadline for a single clip load
}

// DefaultConfig returns the default playback configuration.
func DefaultConfig() Config {
	return Config{
		RepeatCount:     1,
		Interval:        0,
		AutoPlay:        false,
		Voice:           VoiceGTTS,
		RandomVoice:     false,
		LookaheadSize:   5,
		PrefetchWorkers: 2,
		PrefetchPause:   100 * time.Millisecond,
		LoadTimeout:     5 * time.Second,
	}
}
