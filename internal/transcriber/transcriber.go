package transcriber

import (
	"context"
	"errors"
)

var (
	ErrMissingCredentials    = errors.New("GOOGLE_APPLICATION_CREDENTIALS not set")
	ErrRecognizerInit        = errors.New("recognizer initialization failed")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)

// Session carries what a backend needs for one transcription. Batch backends
// read Audio; streaming backends drive capture themselves and call AwaitStop
// to block until the user asks to stop.
type Session struct {
	Audio      []byte
	SampleRate int
	Language   string
	AwaitStop  func(ctx context.Context) error
}

type Backend interface {
	Transcribe(ctx context.Context, session Session) (string, error)
}

// Recognizer is a stateful local recognizer that records between Start and
// Stop (or Abort, on interrupt) and yields the transcript on request.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop() error
	Abort() error
	Text(ctx context.Context) (string, error)
}
