package sdl

import (
	"sync"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
)

const axisMax = 32767

// normAxis maps a raw SDL axis value to -1..1.
func normAxis(v int16) float32 {
	f := float32(v) / axisMax
	return max(-1, min(1, f))
}

// normTrigger maps a raw SDL trigger value to 0..1.
func normTrigger(v int16) float32 {
	return max(0, normAxis(v))
}

// rumbleLevel maps a rumble strength in 0..1 to an SDL motor level.
func rumbleLevel(v float32) uint16 {
	return uint16(max(0, min(1, v)) * 0xffff)
}

// dpad holds the four d-pad buttons of one controller.
type dpad struct {
	up, down, left, right bool
}

// vector returns the d-pad direction with up positive.
func (d dpad) vector() (x, y float32) {
	if d.right {
		x++
	}
	if d.left {
		x--
	}
	if d.up {
		y++
	}
	if d.down {
		y--
	}
	return x, y
}

// cellAt converts a pixel position to a screen cell position.
func cellAt(px, py int32, cellW, cellH int) (float32, float32) {
	return float32(px) / float32(cellW), float32(py) / float32(cellH)
}

// palette maps screen colours to RGB.
var palette = map[core.Color][3]uint8{
	core.ColorDefault:       {200, 200, 200},
	core.ColorRed:           {170, 0, 0},
	core.ColorGreen:         {0, 170, 0},
	core.ColorYellow:        {170, 170, 0},
	core.ColorBlue:          {0, 0, 170},
	core.ColorMagenta:       {170, 0, 170},
	core.ColorCyan:          {0, 170, 170},
	core.ColorWhite:         {220, 220, 220},
	core.ColorBrightRed:     {255, 85, 85},
	core.ColorBrightGreen:   {85, 255, 85},
	core.ColorBrightYellow:  {255, 255, 85},
	core.ColorBrightBlue:    {85, 85, 255},
	core.ColorBrightMagenta: {255, 85, 255},
	core.ColorBrightCyan:    {85, 255, 255},
	core.ColorBrightWhite:   {255, 255, 255},
	core.ColorOrange:        {255, 165, 0},
	core.ColorGray:          {110, 110, 110},
}

func rgb(c core.Color) [3]uint8 {
	if v, ok := palette[c]; ok {
		return v
	}
	return palette[core.ColorDefault]
}

// drain tracks the buffers handed to a device that only reports how many
// bytes it still has queued. A buffer counts as played once the queued byte
// count no longer covers it.
// Only the watcher goroutine calls played; done is its scratch space.
type drain struct {
	mu       sync.Mutex
	size     int
	inflight []*audio.Buffer
	done     []*audio.Buffer
}

func newDrain(size, count int) *drain {
	return &drain{
		size:     size,
		inflight: make([]*audio.Buffer, 0, count),
		done:     make([]*audio.Buffer, 0, count),
	}
}

// push records a buffer that was queued on the device.
func (d *drain) push(b *audio.Buffer) {
	d.mu.Lock()
	d.inflight = append(d.inflight, b)
	d.mu.Unlock()
}

// played releases every buffer the device finished, oldest first, and
// reports how many buffers remain queued.
func (d *drain) played(queued int, release func(*audio.Buffer)) int {
	keep := (queued + d.size - 1) / d.size

	d.mu.Lock()
	n := len(d.inflight) - keep
	if n <= 0 {
		left := len(d.inflight)
		d.mu.Unlock()
		return left
	}
	done := append(d.done[:0], d.inflight[:n]...)
	copy(d.inflight, d.inflight[n:])
	clear(d.inflight[len(d.inflight)-n:])
	d.inflight = d.inflight[:len(d.inflight)-n]
	left := len(d.inflight)
	d.mu.Unlock()

	for _, b := range done {
		release(b)
	}
	clear(done)
	d.done = done[:0]
	return left
}

// pending returns the number of buffers still on the device.
func (d *drain) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}
