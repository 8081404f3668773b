package transcriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type LocalStreaming struct {
	recognizer Recognizer
}

func NewLocalStreaming(recognizer Recognizer) *LocalStreaming {
	return &LocalStreaming{recognizer: recognizer}
}

func (l *LocalStreaming) Transcribe(ctx context.Context, session Session) (string, error) {
	if session.AwaitStop == nil {
		return "", errors.New("local streaming session requires a stop signal")
	}
	if err := l.recognizer.Start(ctx); err != nil {
		return "", err
	}
	slog.Debug("local recognizer started")

	waitErr := session.AwaitStop(ctx)
	if errors.Is(waitErr, context.Canceled) {
		if err := l.recognizer.Abort(); err != nil {
			slog.Warn("local recognizer abort failed", "error", err)
		}
	} else if err := l.recognizer.Stop(); err != nil {
		slog.Warn("local recognizer stop failed", "error", err)
	}
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return "", waitErr
	}

	// The caller's context may already be cancelled by an interrupt; the
	// transcript of what was captured is still wanted.
	text, err := l.recognizer.Text(context.WithoutCancel(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscriptUnavailable, err)
	}
	return text, nil
}
