package config

import (
	"fmt"
	"net/url"
	"time"
)

type Variant string

const (
	VariantCloud Variant = "cloud"
	VariantLocal Variant = "local"
)

const (
	InferenceDeviceCPU  = "cpu"
	InferenceDeviceCUDA = "cuda"

	// DefaultInputDevice selects the host API's default input device.
	DefaultInputDevice = -1
)

type Config struct {
	Variant                      Variant
	Env                          string
	MessageEndpoint              string
	Language                     string
	SampleRate                   int
	InputDeviceIndex             int
	FramesPerBuffer              int
	ListDevices                  bool
	Post                         bool
	Verbose                      bool
	PostTimeout                  time.Duration
	GoogleApplicationCredentials string
	GoogleCloudSpeechModel       string
	GoogleCloudSpeechEndpoint    string
	LongRunningThreshold         time.Duration
	LongRunningTimeout           time.Duration
	STTModel                     string
	STTModelDir                  string
	InferenceDevice              string
}

func (c *Config) Validate() error {
	if c.Variant != VariantCloud && c.Variant != VariantLocal {
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("FRAMES_PER_BUFFER must be positive, got %d", c.FramesPerBuffer)
	}
	if c.InputDeviceIndex < DefaultInputDevice {
		return fmt.Errorf("input device index must be %d (default) or a device index, got %d", DefaultInputDevice, c.InputDeviceIndex)
	}
	if c.PostTimeout <= 0 {
		return fmt.Errorf("POST_TIMEOUT must be positive, got %s", c.PostTimeout)
	}
	if c.Post {
		if err := validateEndpoint(c.MessageEndpoint); err != nil {
			return err
		}
	}
	switch c.Variant {
	case VariantCloud:
		if c.SampleRate <= 0 {
			return fmt.Errorf("RATE must be positive, got %d", c.SampleRate)
		}
		if c.LongRunningThreshold <= 0 {
			return fmt.Errorf("LONG_RUNNING_THRESHOLD must be positive, got %s", c.LongRunningThreshold)
		}
		if c.LongRunningTimeout <= 0 {
			return fmt.Errorf("LONG_RUNNING_TIMEOUT must be positive, got %s", c.LongRunningTimeout)
		}
	case VariantLocal:
		if c.InferenceDevice != InferenceDeviceCPU && c.InferenceDevice != InferenceDeviceCUDA {
			return fmt.Errorf("DEVICE must be %q or %q, got %q", InferenceDeviceCPU, InferenceDeviceCUDA, c.InferenceDevice)
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	if c.ListDevices {
		return nil
	}
	switch c.Variant {
	case VariantCloud:
		return []requiredEnvField{
			{name: "LANGUAGE", value: c.Language},
			{name: "GOOGLE_APPLICATION_CREDENTIALS", value: c.GoogleApplicationCredentials},
		}
	case VariantLocal:
		return []requiredEnvField{
			{name: "STT_MODEL", value: c.STTModel},
		}
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("MESSAGE_ENDPOINT is required when posting")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("MESSAGE_ENDPOINT is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("MESSAGE_ENDPOINT must be an absolute http(s) URL, got %q", endpoint)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) HasInputDevice() bool {
	return c.InputDeviceIndex != DefaultInputDevice
}
