package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/config"
	"github.com/foxseedlab/soundclient/internal/transcriber"
	"github.com/foxseedlab/soundclient/internal/webhook"
	"github.com/google/uuid"
)

// ErrFatal marks errors the runner has already reported on the console.
var ErrFatal = errors.New("fatal")

type Runner struct {
	cfg      *config.Config
	capturer audio.Capturer
	backend  transcriber.Backend
	sender   webhook.Sender
	out      io.Writer
	in       io.Reader
	log      *slog.Logger

	state   State
	visited []State
}

func NewRunner(cfg *config.Config, capturer audio.Capturer, backend transcriber.Backend, sender webhook.Sender, out io.Writer, in io.Reader) *Runner {
	return &Runner{
		cfg:      cfg,
		capturer: capturer,
		backend:  backend,
		sender:   sender,
		out:      out,
		in:       in,
		log:      slog.With("run_id", uuid.NewString()),
		state:    StateIdle,
		visited:  []State{StateIdle},
	}
}

func (r *Runner) State() State {
	return r.state
}

// RunBatch records until the stop signal, then hands the whole buffer to the
// backend.
func (r *Runner) RunBatch(ctx context.Context) error {
	r.printInfo(
		fmt.Sprintf(messageInfoEndpoint, r.cfg.MessageEndpoint),
		fmt.Sprintf(messageInfoLanguage, r.cfg.Language),
		fmt.Sprintf(messageInfoRate, r.cfg.SampleRate),
	)
	if r.cfg.HasInputDevice() {
		r.printInfo(fmt.Sprintf(messageInfoMic, r.cfg.InputDeviceIndex))
	}

	r.advance(StateRecording)
	pcm, err := r.record(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, messageCaptured, audio.DurationSeconds(len(pcm), r.cfg.SampleRate))
	if r.usesLongRunning(len(pcm)) {
		fmt.Fprintf(r.out, messageLongRunning, audio.DurationSeconds(len(pcm), r.cfg.SampleRate))
	}

	r.advance(StateTranscribing)
	text, err := r.transcribe(ctx, transcriber.Session{
		Audio:      pcm,
		SampleRate: r.cfg.SampleRate,
		Language:   r.cfg.Language,
	})
	if err != nil {
		return err
	}
	r.finish(ctx, text)
	return nil
}

// RunStreaming lets the backend drive capture between start and stop.
func (r *Runner) RunStreaming(ctx context.Context) error {
	language := r.cfg.Language
	if language == "" {
		language = languageAutoDetect
	}
	r.printInfo(
		fmt.Sprintf(messageInfoEndpoint, r.cfg.MessageEndpoint),
		fmt.Sprintf(messageInfoLanguage, language),
		fmt.Sprintf(messageInfoModel, r.cfg.STTModel),
		fmt.Sprintf(messageInfoDevice, r.cfg.InferenceDevice),
	)
	if r.cfg.HasInputDevice() {
		r.printInfo(fmt.Sprintf(messageInfoMic, r.cfg.InputDeviceIndex))
	}

	r.advance(StateRecording)
	text, err := r.transcribe(ctx, transcriber.Session{
		Language: r.cfg.Language,
		// The backend runs on an uncancellable context, so the stop wait
		// watches the caller's ctx for interrupts directly.
		AwaitStop: func(_ context.Context) error {
			err := r.awaitStop(ctx)
			r.advance(StateTranscribing)
			return err
		},
	})
	if err != nil {
		return err
	}
	r.finish(ctx, text)
	return nil
}

func (r *Runner) record(ctx context.Context) ([]byte, error) {
	buf := audio.NewBuffer()
	stream, err := r.capturer.Start(r.captureConfig(), buf.Append)
	if err != nil {
		return nil, r.micOpenFailed(err)
	}

	waitErr := r.awaitStop(ctx)
	var stopErr error
	if waitErr != nil {
		stopErr = stream.Abort()
	} else {
		stopErr = stream.Stop()
	}
	if stopErr != nil {
		r.log.Warn("failed to stop capture stream", "error", stopErr)
	}
	if waitErr != nil && ctx.Err() == nil {
		fmt.Fprintf(r.out, messageRecordingFailed, waitErr)
		return nil, fmt.Errorf("%w: wait for stop signal: %w", ErrFatal, waitErr)
	}

	pcm := buf.Bytes()
	if len(pcm) == 0 {
		fmt.Fprintln(r.out, messageNoAudio)
		return nil, fmt.Errorf("%w: %w", ErrFatal, audio.ErrNoAudio)
	}
	r.log.Info("capture finished", "bytes", len(pcm), "duration_seconds", audio.DurationSeconds(len(pcm), r.cfg.SampleRate))
	return pcm, nil
}

// awaitStop prints the recording prompt and blocks for Enter or an interrupt.
// An interrupt is reported and returned as the context error.
func (r *Runner) awaitStop(ctx context.Context) error {
	fmt.Fprintln(r.out, messageRecording)
	err := waitForEnter(ctx, r.in)
	if err != nil && ctx.Err() != nil {
		fmt.Fprintln(r.out, messageInterrupted)
		r.log.Info("recording interrupted")
	}
	return err
}

func (r *Runner) transcribe(ctx context.Context, s transcriber.Session) (string, error) {
	// An interrupt only ends recording; transcription and publishing still run
	// to completion within their own bounds.
	text, err := r.backend.Transcribe(context.WithoutCancel(ctx), s)
	if err == nil {
		return text, nil
	}
	switch {
	case errors.Is(err, audio.ErrDeviceOpen):
		return "", r.micOpenFailed(err)
	case errors.Is(err, audio.ErrNoAudio):
		fmt.Fprintln(r.out, messageNoAudio)
		return "", fmt.Errorf("%w: %w", ErrFatal, err)
	case errors.Is(err, transcriber.ErrTranscriptUnavailable):
		fmt.Fprintf(r.out, messageRetrievalFailed, err)
		r.log.Error("transcript retrieval failed", "error", err)
		return "", nil
	default:
		fmt.Fprintf(r.out, messageTranscribeFailed, err)
		return "", fmt.Errorf("%w: transcription: %w", ErrFatal, err)
	}
}

func (r *Runner) finish(ctx context.Context, text string) {
	r.advance(StateReporting)
	r.report(text)
	if r.cfg.Post {
		r.advance(StatePublishing)
		r.publish(context.WithoutCancel(ctx), text)
	}
	r.advance(StateDone)
	fmt.Fprintln(r.out, messageDone)
}

func (r *Runner) report(text string) {
	if text == "" {
		fmt.Fprintln(r.out, messageNoText)
		return
	}
	fmt.Fprintln(r.out, messageTranscriptHeader)
	fmt.Fprintln(r.out, text)
	fmt.Fprint(r.out, messageTranscriptFooter)
}

// publish makes at most one POST. Failures are reported, never returned.
func (r *Runner) publish(ctx context.Context, text string) *webhook.Result {
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(r.out, messageEmptySkipPost)
		return nil
	}
	res, err := r.sender.SendMessage(ctx, webhook.MessagePayload{Message: text})
	if err != nil {
		fmt.Fprintf(r.out, messagePostFailed, err)
		r.log.Error("failed to post transcript", "error", err, "endpoint", r.cfg.MessageEndpoint)
		return nil
	}
	fmt.Fprintf(r.out, messagePostOK, res.Endpoint, res.StatusCode)
	return res
}

// usesLongRunning mirrors the cloud backend's switch to long-running recognize.
func (r *Runner) usesLongRunning(byteLen int) bool {
	if r.cfg.Variant != config.VariantCloud || r.cfg.LongRunningThreshold <= 0 {
		return false
	}
	return audio.Duration(byteLen, r.cfg.SampleRate) > r.cfg.LongRunningThreshold
}

func (r *Runner) micOpenFailed(err error) error {
	fmt.Fprintf(r.out, messageMicOpenFailed, err)
	fmt.Fprintln(r.out, messageMicOpenHintDevice)
	fmt.Fprintln(r.out, messageMicOpenHintPrivacy)
	return fmt.Errorf("%w: %w", ErrFatal, err)
}

func (r *Runner) captureConfig() audio.CaptureConfig {
	return audio.CaptureConfig{
		SampleRate:      r.cfg.SampleRate,
		DeviceIndex:     r.cfg.InputDeviceIndex,
		FramesPerBuffer: r.cfg.FramesPerBuffer,
	}
}

func (r *Runner) advance(next State) {
	if next <= r.state {
		r.log.Error("ignoring backward state transition", "from", r.state.String(), "to", next.String())
		return
	}
	r.log.Debug("state transition", "from", r.state.String(), "to", next.String())
	r.state = next
	r.visited = append(r.visited, next)
}

func (r *Runner) printInfo(lines ...string) {
	for _, line := range lines {
		fmt.Fprint(r.out, line)
	}
}
