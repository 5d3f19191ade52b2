package input

// MouseMaxTrackLength is the number of positions a mouse track can hold per tick.
const MouseMaxTrackLength = 32

// Mouse holds pointer state for one tick.
// Track records surface positions in arrival order; TrackLength saturates
// at MouseMaxTrackLength and later positions of the same tick are dropped.
type Mouse struct {
	RelativeMovement Vec2
	Scroll           Vec2
	Track            [MouseMaxTrackLength]Vec2
	TrackLength      int
	EndedOver        bool
	ButtonLeft       ButtonState
	ButtonRight      ButtonState
	ButtonMiddle     ButtonState
}

// Move records a move or drag. When over is false the pointer left the
// surface and position is ignored.
// It reports false if the position did not fit into the track.
func (m *Mouse) Move(relative, position Vec2, over bool) bool {
	m.RelativeMovement = relative
	m.EndedOver = over
	if !over {
		return true
	}
	return m.appendTrack(position)
}

// AddScroll accumulates scroll deltas for the tick.
func (m *Mouse) AddScroll(delta Vec2) {
	m.Scroll = m.Scroll.Add(delta)
}

// LastPosition returns the most recent tracked position.
func (m *Mouse) LastPosition() (Vec2, bool) {
	if m.TrackLength == 0 {
		return Vec2{}, false
	}
	return m.Track[m.TrackLength-1], true
}

// appendTrack adds a position if there is room left.
func (m *Mouse) appendTrack(p Vec2) bool {
	if m.TrackLength >= MouseMaxTrackLength {
		return false
	}
	m.Track[m.TrackLength] = p
	m.TrackLength++
	return true
}

// resetFrame clears transient per-tick fields. While the pointer is still
// over the surface the track restarts from its last position so the next
// tick's track is continuous.
func (m *Mouse) resetFrame() {
	last, ok := m.LastPosition()
	m.TrackLength = 0
	m.RelativeMovement = Vec2{}
	m.Scroll = Vec2{}
	if m.EndedOver && ok {
		m.appendTrack(last)
	}
}
