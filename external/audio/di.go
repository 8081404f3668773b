package audio

import (
	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Capturer, error) {
		c, err := NewPortAudioCapturer()
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}
