package ui

import "time"

// Config contains TUI-specific configuration.
type Config struct {
	// Word list and clip locations
	WordFile string
	AudioDir string

	// Initial queue selection; zero values mean the full store.
	RangeStart int
	RangeEnd   int

	// Playback settings
	Voice       string
	RandomVoice bool
	RepeatCount int
	Interval    time.Duration
	AutoPlay    bool

	// Maximum render width; zero means the terminal width.
	Width uint

	HomeDir string `env:"HOME"`

	// Reload the word list when the file changes on disk.
	WatchWordFile bool `env:"MUFRADAT_WATCH" envDefault:"true"`
}
