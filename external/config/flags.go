package config

import (
	internalconfig "github.com/foxseedlab/soundclient/internal/config"
	"github.com/spf13/pflag"
)

// BindFlags registers the command line for cfg's variant. Each flag writes
// straight into cfg and defaults to the value Load resolved, so an explicit
// flag beats the environment and an absent one leaves it untouched.
func BindFlags(flags *pflag.FlagSet, cfg *internalconfig.Config) {
	flags.StringVar(&cfg.MessageEndpoint, "endpoint", cfg.MessageEndpoint, "POST target (env MESSAGE_ENDPOINT)")
	flags.IntVar(&cfg.InputDeviceIndex, "input-device-index", cfg.InputDeviceIndex, "input device index, -1 for the system default (see --list-devices)")
	flags.BoolVar(&cfg.ListDevices, "list-devices", false, "list input devices and exit")
	flags.BoolVar(&cfg.Post, "post", false, `POST {"message": transcript} to the endpoint after transcribing`)
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging on stderr")

	switch cfg.Variant {
	case internalconfig.VariantCloud:
		flags.StringVar(&cfg.Language, "language", cfg.Language, "BCP-47 language code (env LANGUAGE)")
		flags.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "capture sample rate in Hz (env RATE)")
	case internalconfig.VariantLocal:
		flags.StringVar(&cfg.Language, "language", cfg.Language, "language code, empty to auto-detect (env LANGUAGE)")
		flags.StringVar(&cfg.STTModel, "model", cfg.STTModel, "whisper model name or path to a ggml .bin (env STT_MODEL)")
		flags.StringVar(&cfg.InferenceDevice, "device", cfg.InferenceDevice, "inference device: cpu or cuda (env DEVICE)")
	}
}
