package audio

import (
	"sync"
	"time"
)

const bytesPerSample = 2

// Buffer accumulates raw PCM blocks delivered by a capture stream.
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Append(block []byte) {
	if len(block) == 0 {
		return
	}
	b.mu.Lock()
	b.data = append(b.data, block...)
	b.mu.Unlock()
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Bytes returns a copy of the captured audio.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	b.data = nil
	b.mu.Unlock()
}

// DurationSeconds returns the playback length of byteLen bytes of mono 16-bit PCM.
func DurationSeconds(byteLen, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(byteLen) / float64(bytesPerSample*sampleRate)
}

func Duration(byteLen, sampleRate int) time.Duration {
	return time.Duration(DurationSeconds(byteLen, sampleRate) * float64(time.Second))
}
