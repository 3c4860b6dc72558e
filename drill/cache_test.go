package drill_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/yamanq/mufradat/drill"
)

// stubLoader fills clips with a small silent buffer after an optional
// delay, tracking load counts and peak concurrency.
type stubLoader struct {
	delay time.Duration
	err   error
	gate  chan struct{} // when set, Load blocks until the gate closes

	loads     int32
	active    int32
	maxActive int32
}

func (l *stubLoader) Load(ctx context.Context, clip *drill.Clip) error {
	atomic.AddInt32(&l.loads, 1)
	n := atomic.AddInt32(&l.active, 1)
	for {
		max := atomic.LoadInt32(&l.maxActive)
		if n <= max || atomic.CompareAndSwapInt32(&l.maxActive, max, n) {
			break
		}
	}
	defer atomic.AddInt32(&l.active, -1)

	if l.gate != nil {
		<-l.gate
	}
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.err != nil {
		clip.Fail(l.err)
		return l.err
	}

	format := beep.Format{SampleRate: 44100, NumChannels: 1, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(8))
	clip.SetAudio(buf, format)
	return nil
}

func (l *stubLoader) loadCount() int { return int(atomic.LoadInt32(&l.loads)) }

func testCacheConfig() drill.Config {
	cfg := drill.DefaultConfig()
	cfg.LoadTimeout = time.Second
	cfg.PrefetchPause = time.Millisecond
	return cfg
}

func TestPreloadLoadsAndCaches(t *testing.T) {
	loader := &stubLoader{}
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, testCacheConfig())

	clip, err := cache.Preload(context.Background(), 7, drill.VoiceGTTS)
	if err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if !clip.Ready() {
		t.Fatal("clip not ready after preload")
	}

	cached, ok := cache.Get(7, drill.VoiceGTTS)
	if !ok {
		t.Fatal("clip missing from cache after preload")
	}
	if cached != clip {
		t.Error("Get returned a different handle than Preload")
	}

	// A second preload is a cache hit, not a new load.
	again, err := cache.Preload(context.Background(), 7, drill.VoiceGTTS)
	if err != nil {
		t.Fatalf("second Preload failed: %v", err)
	}
	if again != clip {
		t.Error("second Preload returned a different handle")
	}
	if loader.loadCount() != 1 {
		t.Errorf("loader ran %d times, want 1", loader.loadCount())
	}
}

func TestPreloadKeysOnVoice(t *testing.T) {
	loader := &stubLoader{}
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, testCacheConfig())

	a, _ := cache.Preload(context.Background(), 3, drill.VoiceGTTS)
	b, _ := cache.Preload(context.Background(), 3, drill.VoiceTwo)
	if a == b {
		t.Error("different voices for the same word share a handle")
	}
	if loader.loadCount() != 2 {
		t.Errorf("loader ran %d times, want 2", loader.loadCount())
	}
}

func TestPreloadSoftTimeoutFillsLate(t *testing.T) {
	loader := &stubLoader{delay: 60 * time.Millisecond}
	cfg := testCacheConfig()
	cfg.LoadTimeout = 5 * time.Millisecond
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, cfg)

	clip, err := cache.Preload(context.Background(), 11, drill.VoiceOne)
	if !errors.Is(err, drill.ErrClipLoadTimeout) {
		t.Fatalf("Preload error = %v, want ErrClipLoadTimeout", err)
	}
	if clip == nil {
		t.Fatal("timed-out preload returned no handle")
	}
	if clip.Ready() {
		t.Fatal("clip ready before the load could have finished")
	}

	// The handle stays cached and the detached load fills it in late.
	if _, ok := cache.Get(11, drill.VoiceOne); !ok {
		t.Fatal("timed-out clip not cached")
	}

	deadline := time.Now().Add(time.Second)
	for !clip.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("clip never filled in after timeout")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPreloadRecordsLoadError(t *testing.T) {
	wantErr := errors.New("decode failed")
	loader := &stubLoader{err: wantErr}
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, testCacheConfig())

	clip, err := cache.Preload(context.Background(), 4, drill.VoiceGTTS)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Preload error = %v, want %v", err, wantErr)
	}
	if _, _, err := clip.Audio(); !errors.Is(err, wantErr) {
		t.Errorf("clip.Audio error = %v, want %v", err, wantErr)
	}
}

func TestPreloadWaitsForInFlightLoad(t *testing.T) {
	gate := make(chan struct{})
	loader := &stubLoader{gate: gate}
	cfg := testCacheConfig()
	cfg.LoadTimeout = 2 * time.Second
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, cfg)

	// Start a load without waiting on it, as a prefetch pass would.
	handle := cache.Handle(1, drill.VoiceGTTS)
	if handle.Ready() {
		t.Fatal("gated clip ready before the gate opened")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(gate)
	}()

	// Preload of the same clip must wait for the in-flight load instead of
	// handing back the empty handle.
	start := time.Now()
	clip, err := cache.Preload(context.Background(), 1, drill.VoiceGTTS)
	if err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if clip != handle {
		t.Error("Preload returned a different handle than the in-flight load")
	}
	if !clip.Ready() {
		t.Error("clip not ready after Preload returned")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Error("Preload returned before the in-flight load could finish")
	}
	if loader.loadCount() != 1 {
		t.Errorf("loader ran %d times, want 1", loader.loadCount())
	}
}

func TestPrefetchLoadsWindowAndSkipsCached(t *testing.T) {
	loader := &stubLoader{}
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, testCacheConfig())

	// Word 2 is already cached; the pass must not reload it.
	if _, err := cache.Preload(context.Background(), 2, drill.VoiceGTTS); err != nil {
		t.Fatalf("seed preload failed: %v", err)
	}

	cache.Prefetch([]drill.ClipRequest{
		{WordID: 1, Voice: drill.VoiceGTTS},
		{WordID: 2, Voice: drill.VoiceGTTS},
		{WordID: 3, Voice: drill.VoiceGTTS},
	})

	for _, id := range []int{1, 2, 3} {
		clip, ok := cache.Get(id, drill.VoiceGTTS)
		if !ok || !clip.Ready() {
			t.Errorf("word %d not loaded after prefetch", id)
		}
	}
	if loader.loadCount() != 3 {
		t.Errorf("loader ran %d times, want 3 (cached entry skipped)", loader.loadCount())
	}
}

func TestPrefetchBoundsConcurrency(t *testing.T) {
	loader := &stubLoader{delay: 15 * time.Millisecond}
	cfg := testCacheConfig()
	cfg.PrefetchWorkers = 2
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, cfg)

	reqs := make([]drill.ClipRequest, 0, 6)
	for id := 1; id <= 6; id++ {
		reqs = append(reqs, drill.ClipRequest{WordID: id, Voice: drill.VoiceGTTS})
	}
	cache.Prefetch(reqs)

	if max := atomic.LoadInt32(&loader.maxActive); max > 2 {
		t.Errorf("peak concurrent loads = %d, want at most 2", max)
	}
	if loader.loadCount() != 6 {
		t.Errorf("loader ran %d times, want 6", loader.loadCount())
	}
}

func TestPrefetchSingleFlight(t *testing.T) {
	gate := make(chan struct{})
	loader := &stubLoader{gate: gate}
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, testCacheConfig())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		cache.Prefetch([]drill.ClipRequest{{WordID: 1, Voice: drill.VoiceGTTS}})
	}()

	// Wait for the first pass to enter the loader, then try a second pass:
	// it must return immediately without loading anything.
	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&loader.active) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first prefetch never started loading")
		}
		time.Sleep(time.Millisecond)
	}

	cache.Prefetch([]drill.ClipRequest{{WordID: 2, Voice: drill.VoiceGTTS}})
	if loader.loadCount() != 1 {
		t.Errorf("loader ran %d times during in-flight pass, want 1", loader.loadCount())
	}

	close(gate)
	wg.Wait()
}

func TestInvalidateResetsCache(t *testing.T) {
	loader := &stubLoader{}
	cache := drill.NewCache(drill.Resolver{AudioDir: "/clips"}, loader, testCacheConfig())

	if _, err := cache.Preload(context.Background(), 5, drill.VoiceGTTS); err != nil {
		t.Fatalf("Preload failed: %v", err)
	}
	if entries, bytes := cache.Stats(); entries != 1 || bytes == 0 {
		t.Fatalf("Stats = (%d, %d), want one loaded entry", entries, bytes)
	}

	cache.Invalidate()

	if _, ok := cache.Get(5, drill.VoiceGTTS); ok {
		t.Error("entry survived Invalidate")
	}
	if entries, _ := cache.Stats(); entries != 0 {
		t.Errorf("Stats entries = %d after Invalidate, want 0", entries)
	}
}
