package audio

import "errors"

var (
	ErrDeviceOpen = errors.New("audio input device could not be opened")
	ErrNoAudio    = errors.New("no audio captured")
)

// Device is an input-capable device as reported by the host audio subsystem.
type Device struct {
	Index             int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
}

type CaptureConfig struct {
	SampleRate      int
	DeviceIndex     int
	FramesPerBuffer int
}

// BlockSink receives one block of 16-bit little-endian mono PCM. It is called
// from the audio subsystem's goroutine and must not retain block after returning.
type BlockSink func(block []byte)

type Capturer interface {
	ListInputDevices() ([]Device, error)
	Start(cfg CaptureConfig, sink BlockSink) (Stream, error)
}

type Stream interface {
	// Stop drains pending blocks and closes the stream.
	Stop() error
	// Abort discards pending blocks and closes the stream.
	Abort() error
}
