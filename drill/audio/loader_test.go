package audio_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/yamanq/mufradat/drill"
	"github.com/yamanq/mufradat/drill/audio"
)

// writeWAV writes a minimal 16-bit mono PCM file with the given samples.
func writeWAV(t *testing.T, path string, samples []int16) {
	t.Helper()

	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s) //nolint:errcheck
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len())) //nolint:errcheck
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))     //nolint:errcheck
	binary.Write(&buf, binary.LittleEndian, uint16(1))      //nolint:errcheck PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))      //nolint:errcheck mono
	binary.Write(&buf, binary.LittleEndian, uint32(8000))   //nolint:errcheck sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(16000))  //nolint:errcheck byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))      //nolint:errcheck block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))     //nolint:errcheck bit depth
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len())) //nolint:errcheck
	buf.Write(data.Bytes())

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("unable to write test wav: %v", err)
	}
}

func TestLoadDecodesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "12.wav")
	writeWAV(t, path, []int16{0, 1000, -1000, 500})

	clip := drill.NewClip(12, drill.VoiceOne, path)
	if err := (audio.FileLoader{}).Load(context.Background(), clip); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	buffer, format, err := clip.Audio()
	if err != nil {
		t.Fatalf("clip.Audio failed: %v", err)
	}
	if buffer.Len() != 4 {
		t.Errorf("decoded %d samples, want 4", buffer.Len())
	}
	if format.SampleRate != 8000 {
		t.Errorf("sample rate = %d, want 8000", format.SampleRate)
	}
	if clip.Size() == 0 {
		t.Error("loaded clip reports zero size")
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.mp3")
	clip := drill.NewClip(1, drill.VoiceGTTS, path)

	err := (audio.FileLoader{}).Load(context.Background(), clip)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load error = %v, want a not-exist error", err)
	}
	if _, _, err := clip.Audio(); err == nil {
		t.Error("failed load left the clip playable")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "3.ogg")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	clip := drill.NewClip(3, drill.VoiceGTTS, path)
	err := (audio.FileLoader{}).Load(context.Background(), clip)
	if !errors.Is(err, drill.ErrUnsupportedAudio) {
		t.Fatalf("Load error = %v, want ErrUnsupportedAudio", err)
	}
	if clip.Ready() {
		t.Error("unsupported clip reports ready")
	}
}

func TestLoadHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	clip := drill.NewClip(5, drill.VoiceGTTS, "5.mp3")
	if err := (audio.FileLoader{}).Load(ctx, clip); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load error = %v, want context.Canceled", err)
	}
}
