package wavio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// CanonicalRate is the sample rate all components exchange audio at.
const CanonicalRate = 22050

var (
	// ErrEmpty indicates a waveform with no samples.
	ErrEmpty = errors.New("wav: empty waveform")
	// ErrMalformed indicates a payload that is not a usable PCM WAV file.
	ErrMalformed = errors.New("wav: malformed payload")
)

// Clip is decoded single-channel audio.
type Clip struct {
	Samples []float64 // normalized to [-1, 1]
	Rate    int
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.Rate == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.Rate)
}

// Encode serializes samples as a mono 16-bit PCM WAV payload.
func Encode(samples []float64, rate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	if rate <= 0 {
		return nil, fmt.Errorf("wav: invalid sample rate %d", rate)
	}

	dataLen := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen)) //nolint:errcheck
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))     //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint16(1))      //nolint:errcheck // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1))      //nolint:errcheck // mono
	binary.Write(buf, binary.LittleEndian, uint32(rate))   //nolint:errcheck
	binary.Write(buf, binary.LittleEndian, uint32(rate*2)) //nolint:errcheck // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))      //nolint:errcheck // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))     //nolint:errcheck // bits per sample

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen)) //nolint:errcheck

	for _, s := range samples {
		buf.Write(pcm16Bytes(s))
	}
	return buf.Bytes(), nil
}

// Decode parses a PCM WAV payload into a mono clip. Multi-channel input is
// downmixed by averaging channels.
func Decode(payload []byte) (Clip, error) {
	if len(payload) == 0 {
		return Clip{}, ErrEmpty
	}
	if len(payload) < 44 || string(payload[0:4]) != "RIFF" || string(payload[8:12]) != "WAVE" {
		return Clip{}, ErrMalformed
	}

	var (
		format   uint16
		channels uint16
		rate     uint32
		bits     uint16
		data     []byte
		haveFmt  bool
		haveData bool
	)

	// Walk RIFF chunks; fmt and data may appear in any order with padding.
	offset := 12
	for offset+8 <= len(payload) {
		chunkID := string(payload[offset : offset+4])
		chunkLen := int(binary.LittleEndian.Uint32(payload[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkLen > len(payload) {
			chunkLen = len(payload) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return Clip{}, ErrMalformed
			}
			format = binary.LittleEndian.Uint16(payload[body : body+2])
			channels = binary.LittleEndian.Uint16(payload[body+2 : body+4])
			rate = binary.LittleEndian.Uint32(payload[body+4 : body+8])
			bits = binary.LittleEndian.Uint16(payload[body+14 : body+16])
			haveFmt = true
		case "data":
			data = payload[body : body+chunkLen]
			haveData = true
		}
		offset = body + chunkLen
		if chunkLen%2 == 1 {
			offset++
		}
	}

	if !haveFmt || !haveData {
		return Clip{}, ErrMalformed
	}
	if format != 1 || bits != 16 {
		return Clip{}, fmt.Errorf("%w: only 16-bit PCM supported (format=%d bits=%d)", ErrMalformed, format, bits)
	}
	if channels == 0 || rate == 0 {
		return Clip{}, ErrMalformed
	}

	frameBytes := int(channels) * 2
	frames := len(data) / frameBytes
	if frames == 0 {
		return Clip{}, ErrEmpty
	}

	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < int(channels); ch++ {
			off := i*frameBytes + ch*2
			s := int16(data[off]) | int16(data[off+1])<<8
			sum += float64(s) / 32768.0
		}
		samples[i] = sum / float64(channels)
	}

	return Clip{Samples: samples, Rate: int(rate)}, nil
}

func pcm16Bytes(s float64) []byte {
	v := s * 32767.0
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	i := int16(math.Round(v))
	return []byte{byte(i), byte(i >> 8)}
}
