package pong

import (
	"math"

	"github.com/vovakirdan/gameshell/internal/audio"
)

const blipVolume = 0.2

// RenderAudio plays a square wave blip while one is pending and silence
// otherwise. The phase follows the descriptor's sample time so consecutive
// buffers join without clicks.
func (g *Game) RenderAudio(mem []byte, dst []byte, desc audio.Descriptor) {
	s := load(mem)

	frames := int(desc.FramesPerBuffer)
	channels := int(desc.ChannelsPerFrame)
	if frames == 0 || channels == 0 || desc.SampleRate <= 0 {
		audio.Silence(dst)
		return
	}
	bytesPerSample := len(dst) / (frames * channels)
	if s.Now >= s.BlipUntil {
		audio.Silence(dst)
		return
	}

	bits := uint32(bytesPerSample * 8)
	off := 0
	for i := range frames {
		t := (desc.SampleTime + float64(i)) / desc.SampleRate
		v := blipVolume
		if math.Mod(t*s.BlipPitch, 1) >= 0.5 {
			v = -v
		}
		for range channels {
			off += audio.PutSample(dst[off:], bits, v)
		}
	}
}
