package transcriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/transcriber"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

const (
	audioChannelCount  = 1
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
)

type CloudSpeechConfig struct {
	CredentialsFile      string
	Endpoint             string
	Model                string
	LongRunningThreshold time.Duration
	LongRunningTimeout   time.Duration
}

// speechAPI is the subset of the Speech-to-Text client used here. The
// long-running call blocks until the operation completes or ctx expires.
type speechAPI interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error)
	Close() error
}

type CloudSpeechTranscriber struct {
	api                  speechAPI
	model                string
	longRunningThreshold time.Duration
	longRunningTimeout   time.Duration
}

func NewCloudSpeechTranscriber(ctx context.Context, cfg CloudSpeechConfig) (*CloudSpeechTranscriber, error) {
	if strings.TrimSpace(cfg.CredentialsFile) == "" {
		return nil, transcriber.ErrMissingCredentials
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsFile: cfg.CredentialsFile,
		Scopes:          []string{cloudPlatformScope},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return newCloudSpeechTranscriber(&gcpSpeechAPI{client: client}, cfg), nil
}

func newCloudSpeechTranscriber(api speechAPI, cfg CloudSpeechConfig) *CloudSpeechTranscriber {
	return &CloudSpeechTranscriber{
		api:                  api,
		model:                strings.TrimSpace(cfg.Model),
		longRunningThreshold: cfg.LongRunningThreshold,
		longRunningTimeout:   cfg.LongRunningTimeout,
	}
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, session transcriber.Session) (string, error) {
	if len(session.Audio) == 0 {
		return "", audio.ErrNoAudio
	}

	recognitionConfig := &speechpb.RecognitionConfig{
		Encoding:                   speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:            int32(session.SampleRate),
		LanguageCode:               session.Language,
		EnableAutomaticPunctuation: true,
		AudioChannelCount:          audioChannelCount,
		Model:                      t.model,
	}
	recognitionAudio := &speechpb.RecognitionAudio{
		AudioSource: &speechpb.RecognitionAudio_Content{Content: session.Audio},
	}

	duration := audio.Duration(len(session.Audio), session.SampleRate)
	var results []*speechpb.SpeechRecognitionResult
	if t.useLongRunning(duration) {
		slog.Info("audio exceeds synchronous limit; using long-running recognize",
			"duration_seconds", duration.Seconds(),
			"threshold", t.longRunningThreshold,
			"timeout", t.longRunningTimeout)
		waitCtx, cancel := context.WithTimeout(ctx, t.longRunningTimeout)
		defer cancel()
		resp, err := t.api.LongRunningRecognize(waitCtx, &speechpb.LongRunningRecognizeRequest{
			Config: recognitionConfig,
			Audio:  recognitionAudio,
		})
		if err != nil {
			if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("long-running recognize did not finish within %s: %w", t.longRunningTimeout, err)
			}
			return "", recognitionError("long-running recognize", err)
		}
		results = resp.GetResults()
	} else {
		slog.Info("using synchronous recognize", "duration_seconds", duration.Seconds())
		resp, err := t.api.Recognize(ctx, &speechpb.RecognizeRequest{
			Config: recognitionConfig,
			Audio:  recognitionAudio,
		})
		if err != nil {
			return "", recognitionError("recognize", err)
		}
		results = resp.GetResults()
	}

	text := joinTopAlternatives(results)
	slog.Info("cloud speech recognition finished", "results", len(results), "transcript_chars", len(text))
	return text, nil
}

// Shutdown closes the speech client; called by the injector on exit.
func (t *CloudSpeechTranscriber) Shutdown() error {
	return t.api.Close()
}

func (t *CloudSpeechTranscriber) useLongRunning(duration time.Duration) bool {
	return duration > t.longRunningThreshold
}

func joinTopAlternatives(results []*speechpb.SpeechRecognitionResult) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		alternatives := result.GetAlternatives()
		if len(alternatives) == 0 {
			continue
		}
		parts = append(parts, strings.TrimSpace(alternatives[0].GetTranscript()))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func recognitionError(call string, err error) error {
	if st, ok := status.FromError(err); ok {
		slog.Error("speech api call failed", "call", call, "code", st.Code().String(), "message", st.Message())
	}
	return fmt.Errorf("%s: %w", call, err)
}

type gcpSpeechAPI struct {
	client *speech.Client
}

func (a *gcpSpeechAPI) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return a.client.Recognize(ctx, req)
}

func (a *gcpSpeechAPI) LongRunningRecognize(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (*speechpb.LongRunningRecognizeResponse, error) {
	op, err := a.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Debug("long-running operation started", "operation", op.Name())
	return op.Wait(ctx)
}

func (a *gcpSpeechAPI) Close() error {
	return a.client.Close()
}
