package drill

import (
	"context"
	"sync"

	"github.com/gopxl/beep/v2"
)

// Clip is a handle to one pre-rendered pronunciation clip. It is created
// unloaded and filled in asynchronously by a Loader; a clip whose load
// failed or has not finished simply has no audio data yet. Handles are
// shared between the cache and the playback controller, so access to the
// decoded audio goes through the mutex.
type Clip struct {
	WordID int
	Voice  Voice
	Path   string

	mu     sync.Mutex
	buffer *beep.Buffer
	format beep.Format
	err    error

	loadedOnce sync.Once
	loaded     chan struct{} // closed when the load attempt finishes
}

// NewClip creates an unloaded clip handle.
func NewClip(wordID int, voice Voice, path string) *Clip {
	return &Clip{WordID: wordID, Voice: voice, Path: path, loaded: make(chan struct{})}
}

// SetAudio stores the decoded audio on the handle.
func (c *Clip) SetAudio(buffer *beep.Buffer, format beep.Format) {
	c.mu.Lock()
	c.buffer = buffer
	c.format = format
	c.err = nil
	c.mu.Unlock()
	c.loadedOnce.Do(func() { close(c.loaded) })
}

// Fail records a load error on the handle.
func (c *Clip) Fail(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	c.loadedOnce.Do(func() { close(c.loaded) })
}

// WaitReady blocks until the clip's load attempt finishes or ctx is done,
// then reports the clip's state: nil when playable, the recorded load
// error otherwise, or ctx.Err() if the wait was cut short.
func (c *Clip) WaitReady(ctx context.Context) error {
	select {
	case <-c.loaded:
		_, _, err := c.Audio()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Audio returns the decoded audio, or an error if the clip failed to load
// or has no data yet.
func (c *Clip) Audio() (*beep.Buffer, beep.Format, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, beep.Format{}, c.err
	}
	if c.buffer == nil {
		return nil, beep.Format{}, ErrClipNotReady
	}
	return c.buffer, c.format, nil
}

// Ready reports whether the clip has playable audio data.
func (c *Clip) Ready() bool {
	_, _, err := c.Audio()
	return err == nil
}

// Size returns the decoded audio size in bytes, zero while unloaded.
func (c *Clip) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer == nil {
		return 0
	}
	return int64(c.buffer.Len()) * int64(c.format.Width())
}

// Loader decodes a clip's file into audio data, filling the handle via
// SetAudio or Fail. Load blocks until decoding finishes or ctx is done.
type Loader interface {
	Load(ctx context.Context, clip *Clip) error
}

// AudioPlayer is the single shared audio output. Starting a new playback
// stops any in-progress one; done is invoked exactly once when the clip
// plays to completion (not when stopped).
type AudioPlayer interface {
	Play(clip *Clip, done func()) error
	Stop() error
	IsPlaying() bool
}
