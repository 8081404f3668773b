package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	audioimpl "github.com/foxseedlab/soundclient/external/audio"
	configloader "github.com/foxseedlab/soundclient/external/config"
	transcriberimpl "github.com/foxseedlab/soundclient/external/transcriber"
	webhookimpl "github.com/foxseedlab/soundclient/external/webhook"
	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/config"
	"github.com/foxseedlab/soundclient/internal/logging"
	"github.com/foxseedlab/soundclient/internal/session"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func main() {
	cfg := mustLoadConfig()

	cmd := &cobra.Command{
		Use:           "soundclient",
		Short:         "Record from the microphone and transcribe with Google Cloud Speech-to-Text",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	configloader.BindFlags(cmd.Flags(), cfg)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, session.ErrFatal) {
			fmt.Fprintf(os.Stderr, "[error] %v\n", err)
		}
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load(config.VariantCloud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[error] %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	slog.SetDefault(logging.New(os.Stderr, cfg.IsDevelopment() || cfg.Verbose))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	audioimpl.RegisterDI(injector)
	transcriberimpl.RegisterCloudDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	initLogger(cfg)
	slog.Debug("startup: configuration loaded", "env", cfg.Env, "variant", cfg.Variant)

	injector := setupDI(cfg)
	defer injector.Shutdown()

	if cfg.ListDevices {
		capturer, err := do.Invoke[audio.Capturer](injector)
		if err != nil {
			return err
		}
		session.ListDevices(os.Stdout, capturer)
		return nil
	}

	runner, err := do.Invoke[*session.Runner](injector)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	// The first signal only ends recording; restore default handling so a
	// second one terminates the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	return runner.RunBatch(ctx)
}
