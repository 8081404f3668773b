package transcriber

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/soundclient/internal/audio"
)

// whisper.cpp only accepts 16 kHz mono input.
const whisperSampleRate = 16000

type WhisperConfig struct {
	Model           string
	ModelDir        string
	Language        string
	InferenceDevice string
	DeviceIndex     int
	FramesPerBuffer int
}

// ResolveModelPath maps a model name such as "base.en" to
// <dir>/ggml-base.en.bin. Names that already look like a file path are
// returned unchanged.
func ResolveModelPath(dir, model string) string {
	model = strings.TrimSpace(model)
	if strings.HasSuffix(model, ".bin") || strings.ContainsRune(model, filepath.Separator) || strings.Contains(model, "/") {
		return model
	}
	return filepath.Join(dir, "ggml-"+model+".bin")
}

func whisperLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return "auto"
	}
	// whisper.cpp expects ISO 639-1 codes; accept BCP-47 tags like en-US.
	if i := strings.IndexAny(language, "-_"); i > 0 {
		language = language[:i]
	}
	return strings.ToLower(language)
}

// resolveWhisperLanguage returns the code to hand to SetLanguage and whether
// to call it at all. English-only models reject SetLanguage for every code,
// "auto" included, and always decode English.
func resolveWhisperLanguage(requested string, multilingual bool) (string, bool, error) {
	language := whisperLanguage(requested)
	if multilingual {
		return language, true, nil
	}
	if language != "auto" && language != "en" {
		return "", false, fmt.Errorf("model is English-only, cannot transcribe %q", requested)
	}
	return "en", false, nil
}

func (c WhisperConfig) captureConfig() audio.CaptureConfig {
	return audio.CaptureConfig{
		SampleRate:      whisperSampleRate,
		DeviceIndex:     c.DeviceIndex,
		FramesPerBuffer: c.FramesPerBuffer,
	}
}
