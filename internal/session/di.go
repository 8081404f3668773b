package session

import (
	"os"

	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/foxseedlab/soundclient/internal/config"
	"github.com/foxseedlab/soundclient/internal/transcriber"
	"github.com/foxseedlab/soundclient/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Runner, error) {
		cfg := do.MustInvoke[*config.Config](i)
		capturer, err := do.Invoke[audio.Capturer](i)
		if err != nil {
			return nil, err
		}
		backend, err := do.Invoke[transcriber.Backend](i)
		if err != nil {
			return nil, err
		}
		wh := do.MustInvoke[webhook.Sender](i)
		return NewRunner(cfg, capturer, backend, wh, os.Stdout, os.Stdin), nil
	})
}
