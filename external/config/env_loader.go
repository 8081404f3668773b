package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/soundclient/internal/config"
	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

type CommonEnv struct {
	Env             string        `env:"ENV" envDefault:"production"`
	MessageEndpoint string        `env:"MESSAGE_ENDPOINT" envDefault:"http://localhost:9080/message"`
	SampleRate      int           `env:"RATE" envDefault:"16000"`
	FramesPerBuffer int           `env:"FRAMES_PER_BUFFER" envDefault:"8000"`
	PostTimeout     time.Duration `env:"POST_TIMEOUT" envDefault:"15s"`
}

type cloudEnv struct {
	CommonEnv
	Language                     string        `env:"LANGUAGE" envDefault:"en-US"`
	GoogleApplicationCredentials string        `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	GoogleCloudSpeechModel       string        `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"default"`
	GoogleCloudSpeechEndpoint    string        `env:"GOOGLE_CLOUD_SPEECH_ENDPOINT"`
	LongRunningThreshold         time.Duration `env:"LONG_RUNNING_THRESHOLD" envDefault:"60s"`
	LongRunningTimeout           time.Duration `env:"LONG_RUNNING_TIMEOUT" envDefault:"5m"`
}

type localEnv struct {
	CommonEnv
	Language        string `env:"LANGUAGE"`
	STTModel        string `env:"STT_MODEL" envDefault:"base.en"`
	STTModelDir     string `env:"STT_MODEL_DIR" envDefault:"models"`
	InferenceDevice string `env:"DEVICE" envDefault:"cpu"`
}

// Load resolves environment defaults for the given variant. Flags are
// applied on top by the caller, so validation is left to Config.Validate.
func Load(variant internalconfig.Variant) (*internalconfig.Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	switch variant {
	case internalconfig.VariantCloud:
		var raw cloudEnv
		if err := env.Parse(&raw); err != nil {
			return nil, fmt.Errorf("environment variables are invalid: %w", err)
		}
		cfg := fromCommon(variant, raw.CommonEnv)
		cfg.Language = raw.Language
		cfg.GoogleApplicationCredentials = raw.GoogleApplicationCredentials
		cfg.GoogleCloudSpeechModel = raw.GoogleCloudSpeechModel
		cfg.GoogleCloudSpeechEndpoint = raw.GoogleCloudSpeechEndpoint
		cfg.LongRunningThreshold = raw.LongRunningThreshold
		cfg.LongRunningTimeout = raw.LongRunningTimeout
		return cfg, nil
	case internalconfig.VariantLocal:
		var raw localEnv
		if err := env.Parse(&raw); err != nil {
			return nil, fmt.Errorf("environment variables are invalid: %w", err)
		}
		cfg := fromCommon(variant, raw.CommonEnv)
		cfg.Language = raw.Language
		cfg.STTModel = raw.STTModel
		cfg.STTModelDir = raw.STTModelDir
		cfg.InferenceDevice = raw.InferenceDevice
		return cfg, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}

func fromCommon(variant internalconfig.Variant, raw CommonEnv) *internalconfig.Config {
	return &internalconfig.Config{
		Variant:          variant,
		Env:              raw.Env,
		MessageEndpoint:  raw.MessageEndpoint,
		SampleRate:       raw.SampleRate,
		FramesPerBuffer:  raw.FramesPerBuffer,
		PostTimeout:      raw.PostTimeout,
		InputDeviceIndex: internalconfig.DefaultInputDevice,
	}
}

// loadDotEnv never overrides variables already present in the process environment.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Debug("loaded dotenv file", "path", path)
	return nil
}
