package drill

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// clipKey identifies a cache entry.
type clipKey struct {
	Voice  Voice
	WordID int
}

// ClipRequest names one clip for prefetching.
type ClipRequest struct {
	WordID int
	Voice  Voice
}

// Cache holds clip handles keyed by (voice, word id) and refills a
// bounded lookahead window ahead of the cursor. Entries are never evicted
// individually; the cache grows for the session and is reset wholesale on
// voice-mode changes.
type Cache struct {
	resolver Resolver
	loader   Loader

	loadTimeout time.Duration
	workers     int
	batchPause  time.Duration

	mu      sync.RWMutex
	entries map[clipKey]*Clip

	// 1 while a prefetch pass is in flight; concurrent passes are no-ops.
	prefetching int32
}

// NewCache creates a clip cache using cfg's prefetch settings.
func NewCache(resolver Resolver, loader Loader, cfg Config) *Cache {
	return &Cache{
		resolver:    resolver,
		loader:      loader,
		loadTimeout: cfg.LoadTimeout,
		workers:     cfg.PrefetchWorkers,
		batchPause:  cfg.PrefetchPause,
		entries:     make(map[clipKey]*Clip),
	}
}

// Get returns the cached handle for (voice, word id), if present. The
// handle may still be loading or may have failed to load.
func (c *Cache) Get(wordID int, voice Voice) (*Clip, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clip, ok := c.entries[clipKey{Voice: voice, WordID: wordID}]
	return clip, ok
}

// Handle returns the cached handle for (voice, word id), creating it and
// starting a detached load when absent. It never waits: callers that need
// the audio follow up with Clip.WaitReady.
func (c *Cache) Handle(wordID int, voice Voice) *Clip {
	key := clipKey{Voice: voice, WordID: wordID}

	c.mu.Lock()
	if clip, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return clip
	}
	clip := NewClip(wordID, voice, c.resolver.ClipPath(wordID, voice))
	c.entries[key] = clip
	c.mu.Unlock()

	go func() {
		// Detached from any caller: a load that outlives its waiter still
		// finishes and fills the cached handle.
		if err := c.loader.Load(context.Background(), clip); err != nil {
			log.Debug("Clip load failed", "word", wordID, "voice", voice, "err", err)
		}
	}()
	return clip
}

// Preload returns the handle for (voice, word id), starting a load when
// none is in flight, and waits until the clip is decoded or the load
// timeout elapses, whichever comes first. The handle is cached in both
// cases: a timeout is a soft failure, the load keeps running in the
// background and the handle fills in late. Preloading never blocks the
// caller past the timeout.
func (c *Cache) Preload(ctx context.Context, wordID int, voice Voice) (*Clip, error) {
	clip := c.Handle(wordID, voice)

	waitCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()
	err := clip.WaitReady(waitCtx)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		log.Warn("Clip load timed out", "word", wordID, "voice", voice, "path", clip.Path)
		return clip, ErrClipLoadTimeout
	}
	return clip, err
}

// Prefetch loads the given clips ahead of playback with bounded
// concurrency and a short pause between batches. Clips already cached are
// skipped. Only one prefetch pass runs at a time; calls made while a pass
// is in flight return immediately.
func (c *Cache) Prefetch(reqs []ClipRequest) {
	if !atomic.CompareAndSwapInt32(&c.prefetching, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&c.prefetching, 0)

	var pending []ClipRequest
	for _, req := range reqs {
		if _, ok := c.Get(req.WordID, req.Voice); !ok {
			pending = append(pending, req)
		}
	}

	for start := 0; start < len(pending); start += c.workers {
		end := start + c.workers
		if end > len(pending) {
			end = len(pending)
		}

		var wg sync.WaitGroup
		for _, req := range pending[start:end] {
			wg.Add(1)
			go func(req ClipRequest) {
				defer wg.Done()
				if _, err := c.Preload(context.Background(), req.WordID, req.Voice); err != nil {
					log.Debug("Prefetch failed", "word", req.WordID, "voice", req.Voice, "err", err)
				}
			}(req)
		}
		wg.Wait()

		if end < len(pending) {
			time.Sleep(c.batchPause)
		}
	}
}

// Invalidate resets the cache wholesale. Used on voice-mode changes;
// dropped handles are left to the garbage collector.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[clipKey]*Clip)
}

// Stats returns the number of cached handles and their decoded size.
func (c *Cache) Stats() (entries int, bytes int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, clip := range c.entries {
		entries++
		bytes += clip.Size()
	}
	return entries, bytes
}
