package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/foxseedlab/soundclient/internal/audio"
	"github.com/gordonklaus/portaudio"
)

const captureChannels = 1

type PortAudioCapturer struct {
	mu         sync.Mutex
	terminated bool
}

func NewPortAudioCapturer() (*PortAudioCapturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &PortAudioCapturer{}, nil
}

func (c *PortAudioCapturer) ListInputDevices() ([]audio.Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	devices := make([]audio.Device, 0, len(infos))
	for _, info := range infos {
		if info.MaxInputChannels <= 0 {
			continue
		}
		devices = append(devices, audio.Device{
			Index:             info.Index,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		})
	}
	return devices, nil
}

func (c *PortAudioCapturer) Start(cfg audio.CaptureConfig, sink audio.BlockSink) (audio.Stream, error) {
	dev, err := resolveInputDevice(cfg.DeviceIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDeviceOpen, err)
	}
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: captureChannels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: cfg.FramesPerBuffer,
	}

	var overflows int64
	callback := func(in []int16, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		if flags&(portaudio.InputOverflow|portaudio.InputUnderflow) != 0 {
			overflows++
			if overflows == 1 || overflows%50 == 0 {
				slog.Warn("audio input status", "flags", uint64(flags), "occurrences", overflows)
			}
		}
		sink(audio.Int16ToPCM(in))
	}

	stream, err := portaudio.OpenStream(params, callback)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream on %q: %w", audio.ErrDeviceOpen, dev.Name, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: start stream on %q: %w", audio.ErrDeviceOpen, dev.Name, err)
	}
	slog.Info("capture stream started",
		"device_index", dev.Index,
		"device_name", dev.Name,
		"sample_rate", cfg.SampleRate,
		"frames_per_buffer", cfg.FramesPerBuffer)
	return &portAudioStream{stream: stream}, nil
}

// Shutdown releases PortAudio; called by the injector on exit.
func (c *PortAudioCapturer) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminated {
		return nil
	}
	c.terminated = true
	return portaudio.Terminate()
}

func resolveInputDevice(index int) (*portaudio.DeviceInfo, error) {
	if index < 0 {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default input device: %w", err)
		}
		return dev, nil
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	for _, info := range infos {
		if info.Index != index {
			continue
		}
		if info.MaxInputChannels < captureChannels {
			return nil, fmt.Errorf("device %d (%s) has no input channels", index, info.Name)
		}
		return info, nil
	}
	return nil, fmt.Errorf("device index %d out of range (%d devices)", index, len(infos))
}

type portAudioStream struct {
	mu     sync.Mutex
	stream *portaudio.Stream
}

func (s *portAudioStream) Stop() error {
	return s.close(false)
}

func (s *portAudioStream) Abort() error {
	return s.close(true)
}

func (s *portAudioStream) close(immediate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	stream := s.stream
	s.stream = nil

	var stopErr error
	if immediate {
		stopErr = stream.Abort()
	} else {
		stopErr = stream.Stop()
	}
	closeErr := stream.Close()
	if stopErr != nil {
		return fmt.Errorf("stop stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close stream: %w", closeErr)
	}
	return nil
}
