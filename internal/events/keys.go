package events

// KeyCode is a host independent key identifier. Frontends translate their
// native key codes to these values; anything they cannot name is KeyUnknown.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyF
	KeyR
	KeyC
	KeyQ
	KeyP
	Key1
	Key2
	Key3
	Key4
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyLeftControl
	KeyLeftShift
	KeySpace
	KeyTab
	KeyEscape
	KeyReturn
	KeyBackspace
)

var keyNames = map[KeyCode]string{
	KeyUnknown:     "unknown",
	KeyW:           "w",
	KeyA:           "a",
	KeyS:           "s",
	KeyD:           "d",
	KeyF:           "f",
	KeyR:           "r",
	KeyC:           "c",
	KeyQ:           "q",
	KeyP:           "p",
	Key1:           "1",
	Key2:           "2",
	Key3:           "3",
	Key4:           "4",
	KeyUp:          "up",
	KeyDown:        "down",
	KeyLeft:        "left",
	KeyRight:       "right",
	KeyLeftControl: "lctrl",
	KeyLeftShift:   "lshift",
	KeySpace:       "space",
	KeyTab:         "tab",
	KeyEscape:      "esc",
	KeyReturn:      "enter",
	KeyBackspace:   "backspace",
}

// String returns the short name of the key.
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// KeyFromName looks up a key by its short name.
func KeyFromName(name string) KeyCode {
	for code, n := range keyNames {
		if n == name {
			return code
		}
	}
	return KeyUnknown
}
