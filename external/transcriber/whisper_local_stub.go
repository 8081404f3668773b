//go:build !whisper

package transcriber

import (
	"fmt"

	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/transcriber"
)

const whisperBuilt = false

func NewWhisperRecognizer(cfg WhisperConfig, _ audio.Capturer) (transcriber.Recognizer, error) {
	return nil, fmt.Errorf("%w: model %q: binary built without whisper support (rebuild with -tags whisper)", transcriber.ErrRecognizerInit, cfg.Model)
}
