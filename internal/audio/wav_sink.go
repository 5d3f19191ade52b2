package audio

import (
	"encoding/binary"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// WAVSink records played audio into a WAV file.
type WAVSink struct {
	file    *os.File
	enc     *wav.Encoder
	bits    uint32
	scratch *goaudio.IntBuffer
}

// NewWAVSink creates path and writes a WAV header for the format.
func NewWAVSink(path string, f Format) (*WAVSink, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audio: cannot create capture file: %w", err)
	}

	enc := wav.NewEncoder(file, int(f.SampleRate), int(f.BitsPerSample), int(f.ChannelsPerFrame), wavFormatPCM)

	samples := int(f.FramesPerBuffer * f.ChannelsPerFrame)
	return &WAVSink{
		file: file,
		enc:  enc,
		bits: f.BitsPerSample,
		scratch: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: int(f.ChannelsPerFrame),
				SampleRate:  int(f.SampleRate),
			},
			Data:           make([]int, 0, samples),
			SourceBitDepth: int(f.BitsPerSample),
		},
	}, nil
}

// Write decodes little-endian PCM and appends it to the file.
func (s *WAVSink) Write(pcm []byte) error {
	data := s.scratch.Data[:0]
	switch s.bits {
	case 16:
		for i := 0; i+1 < len(pcm); i += 2 {
			data = append(data, int(int16(binary.LittleEndian.Uint16(pcm[i:]))))
		}
	case 32:
		for i := 0; i+3 < len(pcm); i += 4 {
			data = append(data, int(int32(binary.LittleEndian.Uint32(pcm[i:]))))
		}
	}
	s.scratch.Data = data

	if err := s.enc.Write(s.scratch); err != nil {
		return fmt.Errorf("audio: cannot write capture: %w", err)
	}
	return nil
}

// Close finalises the WAV header and closes the file.
func (s *WAVSink) Close() error {
	if err := s.enc.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("audio: cannot finalise capture: %w", err)
	}
	return s.file.Close()
}
