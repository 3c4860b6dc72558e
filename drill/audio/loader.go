// Package audio provides the clip loader and audio output for the drill,
// backed by beep's decoders and the shared speaker.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/yamanq/mufradat/drill"
)

// FileLoader decodes clip files from disk into memory buffers. The whole
// clip is buffered up front; pronunciation clips are a second or two long,
// so repeat plays can restart from position zero without reseeking the
// file.
type FileLoader struct{}

// Load decodes the clip's file and fills the handle. The handle records
// the failure when decoding is impossible, so the cache keeps a soft-failed
// entry either way.
func (FileLoader) Load(ctx context.Context, clip *drill.Clip) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(clip.Path)
	if err != nil {
		err = fmt.Errorf("unable to open clip: %w", err)
		clip.Fail(err)
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(clip.Path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close() //nolint:errcheck
		err = fmt.Errorf("%w: %s", drill.ErrUnsupportedAudio, ext)
		clip.Fail(err)
		return err
	}
	if err != nil {
		f.Close() //nolint:errcheck
		err = fmt.Errorf("unable to decode clip: %w", err)
		clip.Fail(err)
		return err
	}
	defer streamer.Close() //nolint:errcheck

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		err = fmt.Errorf("unable to read clip: %w", err)
		clip.Fail(err)
		return err
	}

	clip.SetAudio(buffer, format)
	return nil
}
