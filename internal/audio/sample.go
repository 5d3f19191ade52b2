package audio

import (
	"encoding/binary"
	"math"
)

// PutSample writes v in -1..1 as one little-endian sample of the given
// width and returns the number of bytes written. Out of range values clip.
func PutSample(dst []byte, bits uint32, v float64) int {
	v = max(-1, min(1, v))
	switch bits {
	case 16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(math.Round(v*math.MaxInt16))))
		return 2
	case 32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(math.Round(v*math.MaxInt32))))
		return 4
	}
	return 0
}

// Silence zeroes dst.
func Silence(dst []byte) {
	clear(dst)
}
