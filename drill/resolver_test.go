package drill_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/yamanq/mufradat/drill"
)

func TestClipPathConventions(t *testing.T) {
	r := drill.Resolver{AudioDir: "/data"}

	tests := []struct {
		name  string
		id    int
		voice drill.Voice
		want  string
	}{
		{"network voice", 42, drill.VoiceGTTS, filepath.Join("/data", "audios", "audio_42.mp3")},
		{"local voice", 42, drill.VoiceTwo, filepath.Join("/data", "tts_out", "voice2", "42.wav")},
		{"negative id still resolves", -1, drill.VoiceGTTS, filepath.Join("/data", "audios", "audio_-1.mp3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ClipPath(tt.id, tt.voice); got != tt.want {
				t.Errorf("ClipPath(%d, %s) = %q, want %q", tt.id, tt.voice, got, tt.want)
			}
		})
	}
}

func TestParseVoice(t *testing.T) {
	for _, v := range drill.Voices() {
		got, err := drill.ParseVoice(string(v))
		if err != nil || got != v {
			t.Errorf("ParseVoice(%q) = %v, %v", v, got, err)
		}
	}
	if _, err := drill.ParseVoice("announcer"); !errors.Is(err, drill.ErrUnknownVoice) {
		t.Errorf("ParseVoice(announcer) = %v, want %v", err, drill.ErrUnknownVoice)
	}
}

func TestPickVoiceIsStable(t *testing.T) {
	voices := drill.Voices()
	for id := 0; id < 200; id++ {
		first := drill.PickVoice(id)
		found := false
		for _, v := range voices {
			if v == first {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("PickVoice(%d) = %q, not in the voice set", id, first)
		}
		for i := 0; i < 5; i++ {
			if got := drill.PickVoice(id); got != first {
				t.Fatalf("PickVoice(%d) changed between calls: %q then %q", id, first, got)
			}
		}
	}
}

func TestPickVoiceUsesMultipleVoices(t *testing.T) {
	seen := make(map[drill.Voice]bool)
	for id := 1; id <= 100; id++ {
		seen[drill.PickVoice(id)] = true
	}
	if len(seen) < 2 {
		t.Errorf("PickVoice mapped 100 ids to %d voice(s)", len(seen))
	}
}
