package transcriber

import (
	"context"

	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/config"
	"github.com/foxseedlab/soundclient/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterCloudDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Backend, error) {
		c := do.MustInvoke[*config.Config](i)
		t, err := NewCloudSpeechTranscriber(context.Background(), CloudSpeechConfig{
			CredentialsFile:      c.GoogleApplicationCredentials,
			Endpoint:             c.GoogleCloudSpeechEndpoint,
			Model:                c.GoogleCloudSpeechModel,
			LongRunningThreshold: c.LongRunningThreshold,
			LongRunningTimeout:   c.LongRunningTimeout,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

func RegisterLocalDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Recognizer, error) {
		c := do.MustInvoke[*config.Config](i)
		capturer, err := do.Invoke[audio.Capturer](i)
		if err != nil {
			return nil, err
		}
		return NewWhisperRecognizer(WhisperConfig{
			Model:           c.STTModel,
			ModelDir:        c.STTModelDir,
			Language:        c.Language,
			InferenceDevice: c.InferenceDevice,
			DeviceIndex:     c.InputDeviceIndex,
			FramesPerBuffer: c.FramesPerBuffer,
		}, capturer)
	})
	do.Provide(injector, func(i do.Injector) (transcriber.Backend, error) {
		rec, err := do.Invoke[transcriber.Recognizer](i)
		if err != nil {
			return nil, err
		}
		return transcriber.NewLocalStreaming(rec), nil
	})
}
