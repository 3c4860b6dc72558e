package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/yamanq/mufradat/drill"
)

// speakerSampleRate is the fixed output rate; clips at other rates are
// resampled on the fly.
const speakerSampleRate beep.SampleRate = 44100

// Player is the single shared audio output, backed by the beep speaker.
// Starting a new playback clears any in-progress one.
//
// The speaker invokes end-of-clip callbacks while holding its own package
// lock, and Play/Stop call into the speaker while serialized on p.mu.
// Playback state is therefore kept in atomics: a callback that took p.mu
// would order the two locks both ways and deadlock.
type Player struct {
	mu       sync.Mutex // serializes Play/Stop against each other
	initOnce sync.Once
	initErr  error
	playing  atomic.Bool
	seq      atomic.Uint64 // guards against completion callbacks of replaced clips
}

// NewPlayer creates the shared output. Speaker initialization is deferred
// to the first play so a missing audio device surfaces as a playback
// error, not a startup failure.
func NewPlayer() *Player {
	return &Player{}
}

func (p *Player) init() error {
	p.initOnce.Do(func() {
		err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
		if err != nil {
			p.initErr = fmt.Errorf("%w: %v", drill.ErrPlayerUnavailable, err)
		}
	})
	return p.initErr
}

// Play starts the clip from position zero, replacing any current
// playback. done runs once when the clip plays to completion; it is not
// called when playback is stopped or replaced.
func (p *Player) Play(clip *drill.Clip, done func()) error {
	if clip == nil {
		return drill.ErrNothingToPlay
	}
	buffer, format, err := clip.Audio()
	if err != nil {
		return err
	}
	if err := p.init(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	speaker.Clear()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())
	if format.SampleRate != speakerSampleRate {
		streamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	seq := p.seq.Add(1)
	p.playing.Store(true)
	speaker.Play(beep.Seq(streamer, p.finished(seq, done)))

	return nil
}

// finished builds the end-of-clip callback. It runs on the speaker
// goroutine under the speaker's lock, so it must stay lock-free: state
// updates go through the atomics and the controller handoff happens on a
// fresh goroutine.
func (p *Player) finished(seq uint64, done func()) beep.Streamer {
	return beep.Callback(func() {
		if p.seq.Load() == seq {
			p.playing.Store(false)
		}
		go done()
	})
}

// Stop clears the output without invoking the completion callback.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initErr != nil {
		return nil
	}
	p.seq.Add(1)
	speaker.Clear()
	p.playing.Store(false)
	return nil
}

// IsPlaying reports whether a clip is currently playing.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}
