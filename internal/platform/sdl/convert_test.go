package sdl

import (
	"testing"

	"github.com/vovakirdan/gameshell/internal/audio"
	"github.com/vovakirdan/gameshell/internal/core"
)

func TestNormAxis(t *testing.T) {
	tests := []struct {
		in   int16
		want float32
	}{
		{0, 0},
		{32767, 1},
		{-32768, -1},
	}

	for _, tt := range tests {
		if got := normAxis(tt.in); got != tt.want {
			t.Errorf("normAxis(%d) = %v, expected %v", tt.in, got, tt.want)
		}
	}

	if got := normTrigger(-100); got != 0 {
		t.Errorf("normTrigger(-100) = %v, expected 0", got)
	}
}

func TestRumbleLevel(t *testing.T) {
	if got := rumbleLevel(1); got != 0xffff {
		t.Errorf("rumbleLevel(1) = %d, expected %d", got, 0xffff)
	}
	if got := rumbleLevel(-1); got != 0 {
		t.Errorf("rumbleLevel(-1) = %d, expected 0", got)
	}
}

func TestDPadVector(t *testing.T) {
	tests := []struct {
		name string
		pad  dpad
		x, y float32
	}{
		{"centre", dpad{}, 0, 0},
		{"up", dpad{up: true}, 0, 1},
		{"down left", dpad{down: true, left: true}, -1, -1},
		{"opposites cancel", dpad{left: true, right: true}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.pad.vector()
			if x != tt.x || y != tt.y {
				t.Errorf("vector() = (%v, %v), expected (%v, %v)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestCellAt(t *testing.T) {
	x, y := cellAt(25, 40, 10, 20)
	if x != 2.5 || y != 2 {
		t.Errorf("cellAt() = (%v, %v), expected (2.5, 2)", x, y)
	}
}

func TestRGBFallsBack(t *testing.T) {
	if got := rgb(core.Color(200)); got != palette[core.ColorDefault] {
		t.Errorf("rgb(200) = %v, expected default", got)
	}
}

func TestDrainReleasesPlayed(t *testing.T) {
	d := newDrain(100, 3)
	bufs := []*audio.Buffer{{Index: 0}, {Index: 1}, {Index: 2}}
	for _, b := range bufs {
		d.push(b)
	}

	var released []int
	release := func(b *audio.Buffer) { released = append(released, b.Index) }

	// All three still queued
	if left := d.played(300, release); left != 3 || len(released) != 0 {
		t.Fatalf("played(300) left %d released %v, expected 3 and none", left, released)
	}

	// Partially played second buffer is kept
	if left := d.played(150, release); left != 2 {
		t.Errorf("played(150) left %d, expected 2", left)
	}
	if len(released) != 1 || released[0] != 0 {
		t.Errorf("released = %v, expected [0]", released)
	}

	if left := d.played(0, release); left != 0 {
		t.Errorf("played(0) left %d, expected 0", left)
	}
	if len(released) != 3 || released[2] != 2 {
		t.Errorf("released = %v, expected [0 1 2]", released)
	}
	if d.pending() != 0 {
		t.Errorf("pending() = %d, expected 0", d.pending())
	}
}

func TestDrainReleaseDoesNotAllocate(t *testing.T) {
	d := newDrain(100, 3)
	bufs := []*audio.Buffer{{Index: 0}, {Index: 1}, {Index: 2}}
	released := 0
	release := func(*audio.Buffer) { released++ }

	allocs := testing.AllocsPerRun(100, func() {
		for _, b := range bufs {
			d.push(b)
		}
		d.played(150, release)
		d.played(0, release)
	})
	if allocs != 0 {
		t.Errorf("allocations per cycle = %v, expected 0", allocs)
	}
	if released != 3*101 {
		t.Errorf("released = %d, expected %d", released, 3*101)
	}
}
