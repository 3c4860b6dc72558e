package drill

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strconv"
)

// Voice selects which synthesized-speech rendering to use for a word's
// audio. The set is fixed by the offline rendering pipeline: one
// network-TTS voice and three locally rendered ones.
type Voice string

const (
	// VoiceGTTS is the default network-TTS voice.
	VoiceGTTS Voice = "gtts"
	// VoiceOne through VoiceThree are locally rendered voices.
	VoiceOne   Voice = "voice1"
	VoiceTwo   Voice = "voice2"
	VoiceThree Voice = "voice3"
)

// Voices returns the full enumerated voice set.
func Voices() []Voice {
	return []Voice{VoiceGTTS, VoiceOne, VoiceTwo, VoiceThree}
}

// ParseVoice validates a voice name.
func ParseVoice(s string) (Voice, error) {
	for _, v := range Voices() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVoice, s)
}

// Resolver maps (word id, voice) to the path of a pre-rendered clip. It is
// a pure function of its inputs: malformed ids simply produce a
// non-existent path, surfaced later as a load error.
type Resolver struct {
	// AudioDir is the root directory holding the rendered clips.
	AudioDir string
}

// ClipPath returns the clip location for a word under the given voice.
// The network-TTS voice and the locally rendered voices use different
// naming conventions, fixed by the rendering pipeline.
func (r Resolver) ClipPath(wordID int, voice Voice) string {
	if voice == VoiceGTTS {
		return filepath.Join(r.AudioDir, "audios", fmt.Sprintf("audio_%d.mp3", wordID))
	}
	return filepath.Join(r.AudioDir, "tts_out", string(voice), fmt.Sprintf("%d.wav", wordID))
}

// PickVoice deterministically assigns a voice to a word for randomized
// voice mode: an FNV-1a hash of the id's decimal string indexes the voice
// set, so a given word always maps to the same voice.
func PickVoice(wordID int) Voice {
	voices := Voices()
	h := fnv.New32a()
	h.Write([]byte(strconv.Itoa(wordID))) //nolint:errcheck
	return voices[int(h.Sum32()%uint32(len(voices)))]
}
