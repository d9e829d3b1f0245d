package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const (
	SpeechSampleRate = 24000
	SpeechChannels   = 1
	bytesPerSample   = 2
)

var ErrOddLength = errors.New("pcm16 data has odd length")

// PCM is interleaved signed 16-bit audio.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// DecodePCM16 reads little-endian signed 16-bit samples.
func DecodePCM16(data []byte, sampleRate, channels int) (PCM, error) {
	if len(data)%bytesPerSample != 0 {
		return PCM{}, ErrOddLength
	}
	samples := make([]int16, len(data)/bytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*bytesPerSample:]))
	}
	return PCM{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}, nil
}

// Bytes encodes the samples back to little-endian PCM16.
func (p PCM) Bytes() []byte {
	data := make([]byte, len(p.Samples)*bytesPerSample)
	for i, sample := range p.Samples {
		binary.LittleEndian.PutUint16(data[i*bytesPerSample:], uint16(sample))
	}
	return data
}

func (p PCM) Duration() time.Duration {
	if p.SampleRate == 0 || p.Channels == 0 {
		return 0
	}
	frames := len(p.Samples) / p.Channels
	return time.Duration(frames) * time.Second / time.Duration(p.SampleRate)
}

// WAV wraps the samples into a canonical 44-byte header RIFF file.
func (p PCM) WAV() []byte {
	data := p.Bytes()
	byteRate := p.SampleRate * p.Channels * bytesPerSample

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(data)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(p.Channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(p.SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(p.Channels*bytesPerSample))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*8))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}
