package audio

import (
	"encoding/binary"

	goaudio "github.com/go-audio/audio"
)

const pcmBitDepth = 16

// Int16ToPCM encodes samples as 16-bit little-endian PCM.
func Int16ToPCM(samples []int16) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(s))
	}
	return out
}

// PCMToFloat32 converts mono 16-bit little-endian PCM to samples in [-1, 1].
// A trailing odd byte is ignored.
func PCMToFloat32(pcm []byte, sampleRate int) []float32 {
	n := len(pcm) / bytesPerSample
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, n),
		SourceBitDepth: pcmBitDepth,
	}
	for i := 0; i < n; i++ {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*bytesPerSample:])))
	}
	return buf.AsFloat32Buffer().Data
}
