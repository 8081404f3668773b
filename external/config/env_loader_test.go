package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	internalconfig "github.com/foxseedlab/soundclient/internal/config"
)

var sharedKeys = []string{"ENV", "MESSAGE_ENDPOINT", "RATE", "FRAMES_PER_BUFFER", "POST_TIMEOUT"}

func TestLoad_CloudDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetenv(t, "LANGUAGE")
	for _, key := range sharedKeys {
		unsetenv(t, key)
	}
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")

	cfg, err := Load(internalconfig.VariantCloud)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.MessageEndpoint != "http://localhost:9080/message" {
		t.Fatalf("unexpected endpoint: %s", cfg.MessageEndpoint)
	}
	if cfg.Language != "en-US" || cfg.SampleRate != 16000 {
		t.Fatalf("unexpected language/rate: %s %d", cfg.Language, cfg.SampleRate)
	}
	if cfg.LongRunningThreshold != 60*time.Second || cfg.LongRunningTimeout != 5*time.Minute {
		t.Fatalf("unexpected long-running bounds: %s %s", cfg.LongRunningThreshold, cfg.LongRunningTimeout)
	}
	if cfg.PostTimeout != 15*time.Second {
		t.Fatalf("unexpected post timeout: %s", cfg.PostTimeout)
	}
	if cfg.FramesPerBuffer != 8000 || cfg.Env != "production" {
		t.Fatalf("unexpected frames/env: %d %s", cfg.FramesPerBuffer, cfg.Env)
	}
	if cfg.InputDeviceIndex != internalconfig.DefaultInputDevice {
		t.Fatalf("unexpected device index: %d", cfg.InputDeviceIndex)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_LocalDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetenv(t, "LANGUAGE")
	for _, key := range sharedKeys {
		unsetenv(t, key)
	}

	cfg, err := Load(internalconfig.VariantLocal)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Language != "" {
		t.Fatalf("expected auto-detect language, got %q", cfg.Language)
	}
	if cfg.STTModel != "base.en" || cfg.InferenceDevice != internalconfig.InferenceDeviceCPU {
		t.Fatalf("unexpected model/device: %s %s", cfg.STTModel, cfg.InferenceDevice)
	}
	if cfg.MessageEndpoint != "http://localhost:9080/message" || cfg.PostTimeout != 15*time.Second {
		t.Fatalf("unexpected shared defaults: %s %s", cfg.MessageEndpoint, cfg.PostTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_SharedSettingsReadForBothVariants(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "development")
	t.Setenv("MESSAGE_ENDPOINT", "http://hooks.internal:8080/message")
	t.Setenv("RATE", "44100")
	t.Setenv("FRAMES_PER_BUFFER", "4000")
	t.Setenv("POST_TIMEOUT", "3s")

	for _, variant := range []internalconfig.Variant{internalconfig.VariantCloud, internalconfig.VariantLocal} {
		t.Run(string(variant), func(t *testing.T) {
			cfg, err := Load(variant)
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if cfg.Env != "development" || cfg.MessageEndpoint != "http://hooks.internal:8080/message" {
				t.Fatalf("unexpected env/endpoint: %q %q", cfg.Env, cfg.MessageEndpoint)
			}
			if cfg.SampleRate != 44100 || cfg.FramesPerBuffer != 4000 || cfg.PostTimeout != 3*time.Second {
				t.Fatalf("unexpected rate/frames/timeout: %d %d %s", cfg.SampleRate, cfg.FramesPerBuffer, cfg.PostTimeout)
			}
		})
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	body := "LANGUAGE=fr-CA\nRATE=8000\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("LANGUAGE", "de-DE")
	unsetenv(t, "RATE")

	cfg, err := Load(internalconfig.VariantCloud)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Language != "de-DE" {
		t.Fatalf("expected process env to win, got %s", cfg.Language)
	}
	if cfg.SampleRate != 8000 {
		t.Fatalf("expected .env rate, got %d", cfg.SampleRate)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LONG_RUNNING_TIMEOUT", "five minutes")

	if _, err := Load(internalconfig.VariantCloud); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

// unsetenv removes key for the duration of the test; t.Setenv restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}
