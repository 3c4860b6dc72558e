package drill

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Controller owns the single shared audio output and sequences playback:
// repeat-plays of the current word, auto-advance with a configurable
// inter-word pause, and prefetch refills of the lookahead window. All
// state changes go through the controller's mutex; completion callbacks
// and the advance timer re-enter through exported methods.
type Controller struct {
	mu      sync.Mutex
	session *Session
	cache   *Cache
	player  AudioPlayer
	machine *StateMachine
	cfg     Config

	repeatsDone int
	currentClip *Clip

	// playSeq invalidates completion callbacks from a stopped playback;
	// advanceSeq invalidates a cancelled delayed-advance timer.
	playSeq      uint64
	advanceSeq   uint64
	advanceTimer *time.Timer

	notify func(Event)
}

// NewController creates a playback controller over the given session,
// cache, and audio output.
func NewController(session *Session, cache *Cache, player AudioPlayer, cfg Config) *Controller {
	if cfg.RepeatCount < 1 {
		cfg.RepeatCount = 1
	}
	return &Controller{
		session: session,
		cache:   cache,
		player:  player,
		machine: NewStateMachine(),
		cfg:     cfg,
	}
}

// OnEvent registers the event sink. The callback runs with the controller
// lock held and must not call back into the controller.
func (c *Controller) OnEvent(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// State returns the current playback state.
func (c *Controller) State() StateType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Config returns a copy of the current configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetRepeatCount updates how many times each clip plays.
func (c *Controller) SetRepeatCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 {
		n = 1
	}
	c.cfg.RepeatCount = n
}

// SetInterval updates the auto-play inter-word pause.
func (c *Controller) SetInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.cfg.Interval = d
}

// SetAutoPlay switches auto-play mode. Disabling it cancels any pending
// delayed advance.
func (c *Controller) SetAutoPlay(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.AutoPlay == on {
		return
	}
	c.cfg.AutoPlay = on
	if !on {
		c.cancelAdvanceLocked()
	}
	c.emit(AutoPlayMsg{Enabled: on, Reason: "user"})
}

// SetVoice selects an explicit voice and leaves randomized mode. The clip
// cache is reset wholesale on any voice-mode change.
func (c *Controller) SetVoice(v Voice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.Voice == v && !c.cfg.RandomVoice {
		return
	}
	c.cfg.Voice = v
	c.cfg.RandomVoice = false
	c.cache.Invalidate()
}

// SetRandomVoice switches randomized per-word voice selection.
func (c *Controller) SetRandomVoice(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.RandomVoice == on {
		return
	}
	c.cfg.RandomVoice = on
	c.cache.Invalidate()
}

// SelectRange rebuilds the queue from the inclusive id range and resets
// the cursor to 0. On error the session and playback state are unchanged.
func (c *Controller) SelectRange(start, end int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.SelectRange(start, end); err != nil {
		return err
	}
	c.stopPlaybackLocked()

	if w, ok := c.session.Current(); ok {
		c.emit(WordChangedMsg{Index: 0, Word: w})
	}
	go c.RefillPrefetch()
	return nil
}

// Play starts the repeat sequence for the word at the cursor: any
// in-flight playback is stopped first, the repeat counter resets, the
// voice is resolved, and a clip that is not loaded yet is waited for up
// to the load timeout.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playLocked()
}

// Next stops playback, cancels any pending advance, moves the cursor
// forward with wraparound, refills the prefetch window, and starts
// playback of the new word when auto-play is active.
func (c *Controller) Next() error {
	return c.navigate(func() (Word, bool) { return c.session.Next() })
}

// Previous is Next in the other direction.
func (c *Controller) Previous() error {
	return c.navigate(func() (Word, bool) { return c.session.Previous() })
}

// JumpTo moves the cursor directly to a queue position.
func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, err := c.session.JumpTo(index)
	if err != nil {
		return err
	}
	c.stopPlaybackLocked()
	c.emit(WordChangedMsg{Index: index, Word: w})
	go c.RefillPrefetch()
	if c.cfg.AutoPlay {
		return c.playLocked()
	}
	return nil
}

// Stop halts playback, cancels any pending delayed advance, and turns
// auto-play off.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPlaybackLocked()
	if c.cfg.AutoPlay {
		c.cfg.AutoPlay = false
		c.emit(AutoPlayMsg{Enabled: false, Reason: "stopped"})
	}
}

// RefillPrefetch loads the lookahead window ahead of the cursor. It is
// safe to call from any goroutine; concurrent refills collapse into the
// single in-flight pass.
func (c *Controller) RefillPrefetch() {
	c.mu.Lock()
	size := c.cfg.LookaheadSize
	random := c.cfg.RandomVoice
	voice := c.cfg.Voice
	c.mu.Unlock()

	window := c.session.PrefetchWindow(size)
	if len(window) == 0 {
		return
	}

	reqs := make([]ClipRequest, 0, len(window))
	for _, w := range window {
		v := voice
		if random {
			v = PickVoice(w.ID)
		}
		reqs = append(reqs, ClipRequest{WordID: w.ID, Voice: v})
	}
	c.cache.Prefetch(reqs)
}

func (c *Controller) navigate(move func() (Word, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopPlaybackLocked()
	w, ok := move()
	if !ok {
		return ErrEmptyQueue
	}
	c.emit(WordChangedMsg{Index: c.session.Cursor(), Word: w})
	go c.RefillPrefetch()
	if c.cfg.AutoPlay {
		return c.playLocked()
	}
	return nil
}

func (c *Controller) playLocked() error {
	w, ok := c.session.Current()
	if !ok {
		return ErrEmptyQueue
	}

	c.stopPlaybackLocked()
	c.repeatsDone = 0

	voice := c.cfg.Voice
	if c.cfg.RandomVoice {
		voice = PickVoice(w.ID)
	}

	clip := c.cache.Handle(w.ID, voice)
	c.playSeq++
	seq := c.playSeq

	if !clip.Ready() {
		// Cold play or a prefetch still in flight: wait for the load,
		// bounded by the same soft timeout as prefetching. The lock is
		// released for the wait so Stop and navigation stay responsive;
		// the sequence check below discards this play if anything
		// intervened.
		timeout := c.cfg.LoadTimeout
		c.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := clip.WaitReady(ctx)
		cancel()
		c.mu.Lock()
		if seq != c.playSeq {
			return nil
		}
		if err != nil {
			log.Warn("Clip not ready at play time", "word", w.ID, "voice", voice, "err", err)
		}
	}

	c.currentClip = clip

	c.machine.Transition(StatePlaying)
	c.emit(StateChangedMsg{State: StatePlaying})
	c.emit(PlayingMsg{
		Index:  c.session.Cursor(),
		Word:   w,
		Voice:  voice,
		Repeat: 1,
		Of:     c.cfg.RepeatCount,
	})

	if err := c.player.Play(clip, func() { c.clipDone(seq) }); err != nil {
		return c.playFailedLocked(w, err)
	}
	return nil
}

// clipDone runs when the current clip finishes one play-through: restart
// for the next repeat, or complete and hand off to auto-advance.
func (c *Controller) clipDone(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.playSeq || c.currentClip == nil {
		return // stale callback from a stopped playback
	}

	c.repeatsDone++
	if c.repeatsDone < c.cfg.RepeatCount {
		c.machine.Transition(StateRepeating)
		c.emit(StateChangedMsg{State: StateRepeating})
		if w, ok := c.session.Current(); ok {
			c.emit(PlayingMsg{
				Index:  c.session.Cursor(),
				Word:   w,
				Voice:  c.currentClip.Voice,
				Repeat: c.repeatsDone + 1,
				Of:     c.cfg.RepeatCount,
			})
			if err := c.player.Play(c.currentClip, func() { c.clipDone(seq) }); err != nil {
				_ = c.playFailedLocked(w, err)
			}
		}
		return
	}

	c.completeLocked()
}

func (c *Controller) completeLocked() {
	c.machine.Transition(StateIdle)
	c.emit(StateChangedMsg{State: StateIdle})
	if w, ok := c.session.Current(); ok {
		c.emit(PlaybackCompleteMsg{Index: c.session.Cursor(), Word: w})
	}
	c.currentClip = nil

	go c.RefillPrefetch()

	if !c.cfg.AutoPlay {
		return
	}
	if c.session.AtEnd() {
		// Advancing would wrap past the end; auto-play ends instead of
		// looping.
		c.cfg.AutoPlay = false
		c.emit(AutoPlayMsg{Enabled: false, Reason: "end of queue"})
		return
	}
	if c.cfg.Interval <= 0 {
		c.advanceLocked()
		return
	}

	c.advanceSeq++
	seq := c.advanceSeq
	c.advanceTimer = time.AfterFunc(c.cfg.Interval, func() { c.autoAdvance(seq) })
}

func (c *Controller) autoAdvance(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.advanceSeq || c.advanceTimer == nil {
		return // cancelled before firing
	}
	c.advanceTimer = nil
	if !c.cfg.AutoPlay {
		return
	}
	c.advanceLocked()
}

func (c *Controller) advanceLocked() {
	w, ok := c.session.Next()
	if !ok {
		return
	}
	c.emit(WordChangedMsg{Index: c.session.Cursor(), Word: w})
	go c.RefillPrefetch()
	if err := c.playLocked(); err != nil {
		log.Warn("Auto-play could not start next word", "word", w.ID, "err", err)
	}
}

func (c *Controller) playFailedLocked(w Word, err error) error {
	c.machine.Transition(StateIdle)
	c.emit(StateChangedMsg{State: StateIdle})
	c.currentClip = nil

	if errors.Is(err, ErrPlayerUnavailable) {
		// The terminal analogue of an autoplay-policy block: tell the user
		// and stop driving the drill.
		c.emit(PlayerBlockedMsg{Err: err})
		if c.cfg.AutoPlay {
			c.cfg.AutoPlay = false
			c.cancelAdvanceLocked()
			c.emit(AutoPlayMsg{Enabled: false, Reason: "audio output unavailable"})
		}
		return err
	}

	log.Error("Playback failed", "word", w.ID, "err", err)
	c.emit(PlaybackErrorMsg{Index: c.session.Cursor(), Word: w, Err: err})
	return err
}

// stopPlaybackLocked halts the player, invalidates pending completion
// callbacks, and cancels any pending delayed advance so that a stale
// callback can never resume playback after a stop.
func (c *Controller) stopPlaybackLocked() {
	c.playSeq++
	c.cancelAdvanceLocked()
	if err := c.player.Stop(); err != nil {
		log.Debug("Player stop failed", "err", err)
	}
	c.currentClip = nil
	c.repeatsDone = 0
	if c.machine.Current() != StateIdle {
		c.machine.Transition(StateIdle)
		c.emit(StateChangedMsg{State: StateIdle})
	}
}

func (c *Controller) cancelAdvanceLocked() {
	c.advanceSeq++
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
		c.advanceTimer = nil
	}
}

func (c *Controller) emit(ev Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}
