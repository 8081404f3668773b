package transcriber

import (
	"context"
	"errors"
	"testing"
	"time"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/transcriber"
)

type mockSpeechAPI struct {
	results         []*speechpb.SpeechRecognitionResult
	err             error
	recognizeReqs   []*speechpb.RecognizeRequest
	longRunningReqs []*speechpb.LongRunningRecognizeRequest
	longRunningCtx  context.Context
	blockUntilDone  bool
	closed          bool
}

func (m *mockSpeechAPI) Recognize(_ context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	m.recognizeReqs = append(m.recognizeReqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return &speechpb.RecognizeResponse{Results: m.results}, nil
}

func (m *mockSpeechAPI) LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	m.longRunningReqs = append(m.longRunningReqs, req)
	m.longRunningCtx = ctx
	if m.blockUntilDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &speechpb.LongRunningRecognizeResponse{Results: m.results}, nil
}

func (m *mockSpeechAPI) Close() error {
	m.closed = true
	return nil
}

func result(alternatives ...string) *speechpb.SpeechRecognitionResult {
	r := &speechpb.SpeechRecognitionResult{}
	for _, a := range alternatives {
		r.Alternatives = append(r.Alternatives, &speechpb.SpeechRecognitionAlternative{Transcript: a})
	}
	return r
}

func newTestTranscriber(api speechAPI) *CloudSpeechTranscriber {
	return newCloudSpeechTranscriber(api, CloudSpeechConfig{
		Model:                "default",
		LongRunningThreshold: 60 * time.Second,
		LongRunningTimeout:   5 * time.Minute,
	})
}

func TestJoinTopAlternatives(t *testing.T) {
	got := joinTopAlternatives([]*speechpb.SpeechRecognitionResult{
		result("a"),
		result("b", "c"),
	})
	if got != "a b" {
		t.Fatalf("expected %q, got %q", "a b", got)
	}
}

func TestJoinTopAlternatives_TrimsAndSkipsEmptyResults(t *testing.T) {
	got := joinTopAlternatives([]*speechpb.SpeechRecognitionResult{
		result(" hello "),
		result(),
		result("world. "),
	})
	if got != "hello world." {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if got := joinTopAlternatives(nil); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}

func TestTranscribe_ShortAudioUsesSynchronousRecognize(t *testing.T) {
	api := &mockSpeechAPI{results: []*speechpb.SpeechRecognitionResult{result("hi")}}
	tr := newTestTranscriber(api)

	// exactly 60s at 16 kHz stays on the synchronous path
	pcm := make([]byte, 60*2*16000)
	got, err := tr.Transcribe(context.Background(), transcriber.Session{Audio: pcm, SampleRate: 16000, Language: "en-US"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != "hi" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if len(api.recognizeReqs) != 1 || len(api.longRunningReqs) != 0 {
		t.Fatalf("expected one synchronous call, got sync=%d long=%d", len(api.recognizeReqs), len(api.longRunningReqs))
	}

	cfg := api.recognizeReqs[0].GetConfig()
	if cfg.GetEncoding() != speechpb.RecognitionConfig_LINEAR16 {
		t.Fatalf("unexpected encoding: %v", cfg.GetEncoding())
	}
	if cfg.GetSampleRateHertz() != 16000 || cfg.GetLanguageCode() != "en-US" {
		t.Fatalf("unexpected rate/language: %d %s", cfg.GetSampleRateHertz(), cfg.GetLanguageCode())
	}
	if cfg.GetAudioChannelCount() != 1 || !cfg.GetEnableAutomaticPunctuation() {
		t.Fatalf("expected mono with punctuation, got %+v", cfg)
	}
	if cfg.GetModel() != "default" {
		t.Fatalf("unexpected model: %s", cfg.GetModel())
	}
	if len(api.recognizeReqs[0].GetAudio().GetContent()) != len(pcm) {
		t.Fatal("expected audio to be sent inline")
	}
}

func TestTranscribe_LongAudioUsesLongRunningRecognize(t *testing.T) {
	api := &mockSpeechAPI{results: []*speechpb.SpeechRecognitionResult{result("first"), result("second")}}
	tr := newTestTranscriber(api)

	pcm := make([]byte, 60*2*16000+2)
	got, err := tr.Transcribe(context.Background(), transcriber.Session{Audio: pcm, SampleRate: 16000, Language: "en-US"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != "first second" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if len(api.longRunningReqs) != 1 || len(api.recognizeReqs) != 0 {
		t.Fatalf("expected one long-running call, got sync=%d long=%d", len(api.recognizeReqs), len(api.longRunningReqs))
	}
	deadline, ok := api.longRunningCtx.Deadline()
	if !ok {
		t.Fatal("expected long-running wait to be bounded")
	}
	if remaining := time.Until(deadline); remaining > 5*time.Minute || remaining < 4*time.Minute {
		t.Fatalf("unexpected wait bound: %s", remaining)
	}
}

func TestTranscribe_LongRunningTimeoutFails(t *testing.T) {
	api := &mockSpeechAPI{blockUntilDone: true}
	tr := newCloudSpeechTranscriber(api, CloudSpeechConfig{
		LongRunningThreshold: time.Second,
		LongRunningTimeout:   10 * time.Millisecond,
	})

	pcm := make([]byte, 4*2*16000)
	_, err := tr.Transcribe(context.Background(), transcriber.Session{Audio: pcm, SampleRate: 16000})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTranscribe_APIErrorIsReturned(t *testing.T) {
	apiErr := errors.New("permission denied")
	api := &mockSpeechAPI{err: apiErr}
	tr := newTestTranscriber(api)

	_, err := tr.Transcribe(context.Background(), transcriber.Session{Audio: []byte{0, 0}, SampleRate: 16000})
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestTranscribe_EmptyAudio(t *testing.T) {
	api := &mockSpeechAPI{}
	tr := newTestTranscriber(api)

	_, err := tr.Transcribe(context.Background(), transcriber.Session{SampleRate: 16000})
	if !errors.Is(err, audio.ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
	if len(api.recognizeReqs)+len(api.longRunningReqs) != 0 {
		t.Fatal("expected no api calls for empty audio")
	}
}

func TestNewCloudSpeechTranscriber_MissingCredentials(t *testing.T) {
	_, err := NewCloudSpeechTranscriber(context.Background(), CloudSpeechConfig{CredentialsFile: " "})
	if !errors.Is(err, transcriber.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestShutdown_ClosesClient(t *testing.T) {
	api := &mockSpeechAPI{}
	if err := newTestTranscriber(api).Shutdown(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !api.closed {
		t.Fatal("expected client to be closed")
	}
}
