package input

import "testing"

func TestDigitalToAnalog(t *testing.T) {
	tests := []struct {
		name                  string
		up, down, left, right bool
		want                  Vec2
	}{
		{"neutral", false, false, false, false, Vec2{0, 0}},
		{"up", true, false, false, false, Vec2{0, 1}},
		{"down", false, true, false, false, Vec2{0, -1}},
		{"left", false, false, true, false, Vec2{-1, 0}},
		{"right", false, false, false, true, Vec2{1, 0}},
		{"up wins over down", true, true, false, false, Vec2{0, 1}},
		{"right wins over left", false, false, true, true, Vec2{1, 0}},
		{"diagonal", true, false, true, false, Vec2{-1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Axis2
			a.Up.Pressed(tt.up)
			a.Down.Pressed(tt.down)
			a.Left.Pressed(tt.left)
			a.Right.Pressed(tt.right)

			a.DigitalToAnalog()
			if a.End != tt.want {
				t.Errorf("End = %+v, expected %+v", a.End, tt.want)
			}
		})
	}
}

func TestAnalogToDigitalIndependent(t *testing.T) {
	tests := []struct {
		name                  string
		end                   Vec2
		up, down, left, right bool
	}{
		{"inside dead zone", Vec2{0.4, -0.4}, false, false, false, false},
		{"on dead zone edge", Vec2{0.5, 0.5}, false, false, false, false},
		{"right", Vec2{0.8, 0}, false, false, false, true},
		{"up left diagonal", Vec2{-0.7, 0.7}, true, false, true, false},
		{"down", Vec2{0.1, -0.9}, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Axis2{End: tt.end}
			a.AnalogToDigital(0.5, IndependentThreshold)

			if a.Up.EndedDown != tt.up || a.Down.EndedDown != tt.down ||
				a.Left.EndedDown != tt.left || a.Right.EndedDown != tt.right {
				t.Errorf("got up=%v down=%v left=%v right=%v",
					a.Up.EndedDown, a.Down.EndedDown, a.Left.EndedDown, a.Right.EndedDown)
			}
		})
	}
}

func TestAnalogToDigitalDominantAxis(t *testing.T) {
	a := Axis2{End: Vec2{-0.7, 0.9}}
	a.AnalogToDigital(0.5, DominantAxis)

	if !a.Up.EndedDown {
		t.Error("Expected dominant vertical component to press Up")
	}
	if a.Left.EndedDown {
		t.Error("Dominant axis policy should not press the weaker Left")
	}

	// Equal magnitudes go to the horizontal axis
	a.End = Vec2{0.8, 0.8}
	a.AnalogToDigital(0.5, DominantAxis)
	if !a.Right.EndedDown || a.Up.EndedDown {
		t.Errorf("tie should press Right only, got right=%v up=%v", a.Right.EndedDown, a.Up.EndedDown)
	}
}

func TestDigitalAnalogRoundTrip(t *testing.T) {
	var a Axis2
	a.Up.Press()
	a.Left.Press()

	a.DigitalToAnalog()
	before := a
	a.AnalogToDigital(0.5, IndependentThreshold)

	if a.Up.EndedDown != before.Up.EndedDown || a.Down.EndedDown != before.Down.EndedDown ||
		a.Left.EndedDown != before.Left.EndedDown || a.Right.EndedDown != before.Right.EndedDown {
		t.Error("digital -> analog -> digital should reproduce the buttons")
	}
	if a.Up.TransitionCount != before.Up.TransitionCount {
		t.Error("round trip should not add transitions in de-duplicated mode")
	}
}

func TestAnalogToDigitalIdempotent(t *testing.T) {
	a := Axis2{End: Vec2{0.9, -0.9}}
	a.AnalogToDigital(0.5, IndependentThreshold)
	first := a
	a.AnalogToDigital(0.5, IndependentThreshold)

	if a != first {
		t.Errorf("second conversion changed state: %+v -> %+v", first, a)
	}
}

func TestAxis1SetThreshold(t *testing.T) {
	var a Axis1
	a.SetThreshold(0.2, 0.5)
	if a.Trigger.EndedDown {
		t.Error("0.2 should not cross a 0.5 threshold")
	}
	if !a.IsAnalog {
		t.Error("Expected IsAnalog after an analog update")
	}

	a.SetThreshold(0.75, 0.5)
	if !a.Trigger.EndedDown {
		t.Error("0.75 should cross a 0.5 threshold")
	}
	if a.End != 0.75 {
		t.Errorf("End = %v, expected 0.75", a.End)
	}
}
