package session

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/foxseedlab/soundclient/internal/audio"
)

// ListDevices prints input-capable devices. It only queries the audio
// subsystem and never opens a capture stream.
func ListDevices(out io.Writer, capturer audio.Capturer) {
	devices, err := capturer.ListInputDevices()
	if err != nil {
		slog.Warn("failed to list input devices", "error", err)
		fmt.Fprintf(out, messageListDevicesFailed, err)
		return
	}
	fmt.Fprintln(out, messageDevicesHeader)
	for _, d := range devices {
		fmt.Fprintf(out, messageDeviceLine, d.Index, d.Name, d.MaxInputChannels, int(d.DefaultSampleRate))
	}
}
