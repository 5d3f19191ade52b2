package pong

import (
	"encoding/binary"

	"github.com/vovakirdan/gameshell/internal/input"
)

// state is the complete game state. It lives in the shell's memory arena,
// so it only holds fixed-size fields.
type state struct {
	Width, Height int32
	PaddleHeight  int32

	Paddle1Y float64 // Player 1 (left) paddle Y position
	Paddle2Y float64 // CPU (right) paddle Y position

	BallX, BallY   float64
	BallVX, BallVY float64

	Score1, Score2 int32

	GameOver   bool
	Paused     bool
	Serving    bool
	Winner     int8    // 1 or 2
	ServeDelay float64 // Reference frames until the serve

	CPUSkill  float64
	TickCount int64
	Now       int64 // Up time of the last tick in microseconds
	RNG       uint64

	// Sound and force feedback are derived from these in RenderAudio and Tick.
	BlipUntil   int64
	BlipPitch   float64
	RumbleUntil int64

	// Transition counts seen on the previous tick, per controller slot.
	PauseSeen   [input.MaxControllers]uint32
	RestartSeen [input.MaxControllers]uint32
}

// stateSize is the number of arena bytes the state occupies.
var stateSize = binary.Size(state{})

func load(mem []byte) state {
	var s state
	if _, err := binary.Decode(mem, binary.LittleEndian, &s); err != nil {
		panic("pong: arena too small: " + err.Error())
	}
	return s
}

func (s *state) store(mem []byte) {
	if _, err := binary.Encode(mem, binary.LittleEndian, s); err != nil {
		panic("pong: arena too small: " + err.Error())
	}
}

// rand returns a pseudo-random float in [0, 1) from the xorshift state.
func (s *state) rand() float64 {
	x := s.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.RNG = x
	return float64(x>>11) / (1 << 53)
}
