package terminal

import (
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
)

// keyMap maps the left side of a QWERTY keyboard to the hex keypad:
//
//	1 2 3 4    1 2 3 C
//	q w e r    4 5 6 D
//	a s d f    7 8 9 E
//	z x c v    A 0 B F
var keyMap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1B
)

// mapKey returns the keypad key for a terminal input byte.
func mapKey(b byte) (int, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keyMap[b]
	return key, ok
}

// keypad tracks the pressed keys. Terminals only report key presses and
// auto repeats, a key counts as pressed until the hold duration passed
// since it was last reported.
type keypad struct {
	mu      sync.Mutex
	hold    time.Duration
	pressed [cpu.KeyCount]time.Time
	quit    bool
}

func newKeypad(hold time.Duration) *keypad {
	return &keypad{hold: hold}
}

// input processes a terminal input byte.
func (k *keypad) input(b byte, now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch b {
	case keyCtrlC, keyEscape:
		k.quit = true
		return
	}

	if key, ok := mapKey(b); ok {
		k.pressed[key] = now
	}
}

// state returns the keys that are pressed at the given time and whether
// quitting was requested.
func (k *keypad) state(now time.Time) ([cpu.KeyCount]bool, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	var keys [cpu.KeyCount]bool
	for key, last := range k.pressed {
		keys[key] = !last.IsZero() && now.Sub(last) < k.hold
	}
	return keys, k.quit
}
