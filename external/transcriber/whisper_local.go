//go:build whisper

package transcriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/config"
	"github.com/foxseedlab/soundclient/internal/transcriber"
	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

const whisperBuilt = true

type WhisperRecognizer struct {
	model    whisper.Model
	capturer audio.Capturer
	capture  audio.CaptureConfig
	threads  uint

	// English-only models refuse SetLanguage.
	language    string
	setLanguage bool

	mu     sync.Mutex
	buf    *audio.Buffer
	stream audio.Stream
}

func NewWhisperRecognizer(cfg WhisperConfig, capturer audio.Capturer) (transcriber.Recognizer, error) {
	path := ResolveModelPath(cfg.ModelDir, cfg.Model)
	slog.Info("loading whisper model", "model", cfg.Model, "path", path, "device", cfg.InferenceDevice)

	model, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: load model %s: %w", transcriber.ErrRecognizerInit, path, err)
	}

	language, setLanguage, err := resolveWhisperLanguage(cfg.Language, model.IsMultilingual())
	if err != nil {
		_ = model.Close()
		return nil, fmt.Errorf("%w: %s: %w", transcriber.ErrRecognizerInit, cfg.Model, err)
	}

	var threads uint
	switch cfg.InferenceDevice {
	case config.InferenceDeviceCUDA:
		// GPU offload is decided when whisper.cpp is compiled; keep decoding threads minimal.
		threads = 1
		slog.Info("cuda requested; whisper.cpp must be built with GGML_CUDA for GPU inference")
	default:
		threads = uint(runtime.NumCPU())
	}

	return &WhisperRecognizer{
		model:       model,
		capturer:    capturer,
		capture:     cfg.captureConfig(),
		language:    language,
		setLanguage: setLanguage,
		threads:     threads,
		buf:         audio.NewBuffer(),
	}, nil
}

func (r *WhisperRecognizer) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		return errors.New("recognizer already recording")
	}
	r.buf.Reset()
	stream, err := r.capturer.Start(r.capture, r.buf.Append)
	if err != nil {
		return err
	}
	r.stream = stream
	return nil
}

func (r *WhisperRecognizer) Stop() error {
	return r.closeStream(false)
}

// Abort drops whatever the device still holds; what is already buffered is kept.
func (r *WhisperRecognizer) Abort() error {
	return r.closeStream(true)
}

func (r *WhisperRecognizer) closeStream(immediate bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return nil
	}
	stream := r.stream
	r.stream = nil
	if immediate {
		return stream.Abort()
	}
	return stream.Stop()
}

func (r *WhisperRecognizer) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pcm := r.buf.Bytes()
	if len(pcm) == 0 {
		return "", audio.ErrNoAudio
	}
	samples := audio.PCMToFloat32(pcm, whisperSampleRate)

	wctx, err := r.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create whisper context: %w", err)
	}
	if r.setLanguage {
		if err := wctx.SetLanguage(r.language); err != nil {
			return "", fmt.Errorf("set language %q: %w", r.language, err)
		}
	}
	wctx.SetTranslate(false)
	wctx.SetThreads(r.threads)

	slog.Info("running whisper inference",
		"duration_seconds", audio.DurationSeconds(len(pcm), whisperSampleRate),
		"language", r.language,
		"threads", r.threads)

	var segments []string
	err = wctx.Process(samples, nil, func(segment whisper.Segment) {
		if text := strings.TrimSpace(segment.Text); text != "" {
			segments = append(segments, text)
		}
	}, nil)
	if err != nil {
		return "", fmt.Errorf("whisper process: %w", err)
	}
	return strings.Join(segments, " "), nil
}

// Shutdown releases the model; called by the injector on exit.
func (r *WhisperRecognizer) Shutdown() error {
	_ = r.Stop()
	return r.model.Close()
}
