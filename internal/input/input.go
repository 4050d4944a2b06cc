// Package input turns a raw terminal byte stream into pressed-key identifiers.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals report repeats but never key releases.
const keyHoldDuration = 120 * time.Millisecond

// EscapeDelay is how long a trailing ESC or "ESC [" waits for the rest of an
// arrow sequence before it is read as a lone Escape. SSH can split a
// sequence across two reads.
const EscapeDelay = 50 * time.Millisecond

// Key identifies a physical key by its browser-style code.
type Key string

const (
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyW          Key = "KeyW"
	KeyA          Key = "KeyA"
	KeyS          Key = "KeyS"
	KeyD          Key = "KeyD"
	KeyP          Key = "KeyP"
	KeyQ          Key = "KeyQ"
	KeySpace      Key = "Space"
	KeyEnter      Key = "Enter"
	KeyEscape     Key = "Escape"
	KeyBackspace  Key = "Backspace"
)

// Keys is the set of currently held keys.
type Keys map[Key]bool

// NewKeys returns a set holding the given keys.
func NewKeys(keys ...Key) Keys {
	set := make(Keys, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// Any reports whether at least one of the keys is held.
func (k Keys) Any(keys ...Key) bool {
	for _, key := range keys {
		if k[key] {
			return true
		}
	}
	return false
}

// Input is one frame of keyboard state.
type Input struct {
	Held    Keys  // Keys seen within the hold window
	Pressed []Key // Keys that arrived this frame, in order
	Text    []byte
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch       chan byte
	lastSeen map[Key]time.Time
	closed   bool

	// Incomplete escape sequence carried over from the previous read.
	pending      []byte
	pendingSince time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := NewStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// NewStream creates a stream fed through Feed instead of a reader.
func NewStream() *Stream {
	return &Stream{
		ch:       make(chan byte, 128),
		lastSeen: make(map[Key]time.Time),
	}
}

// Feed queues bytes as if they had been read from the terminal.
func (s *Stream) Feed(p []byte) {
	for _, b := range p {
		s.ch <- b
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ResetKeyInput forgets every held key, so a key used to confirm a screen
// does not leak into the next one.
func ResetKeyInput(s *Stream) {
	clear(s.lastSeen)
}

// ReadInput drains all available bytes from the stream (non-blocking) at time now.
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream, now time.Time) Input {
	buf := s.takeBytes(now)

	in := Input{Held: make(Keys)}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if key, ok := arrowKey(buf[i+2]); ok {
				s.lastSeen[key] = now
				in.Pressed = append(in.Pressed, key)
				i += 2
				continue
			}
		}

		if key, ok := byteKey(b); ok {
			s.lastSeen[key] = now
			in.Pressed = append(in.Pressed, key)
		}
		if b >= 0x20 && b < 0x7f {
			in.Text = append(in.Text, b)
		}
	}

	for key, seen := range s.lastSeen {
		if now.Sub(seen) < keyHoldDuration {
			in.Held[key] = true
		}
	}
	return in
}

// takeBytes returns the pending bytes plus everything drained, holding back a
// trailing partial escape sequence until it completes or EscapeDelay passes.
func (s *Stream) takeBytes(now time.Time) []byte {
	buf := append(s.pending, s.drain()...)
	s.pending = nil

	n := partialEscape(buf)
	if n == 0 || s.closed {
		s.pendingSince = time.Time{}
		return buf
	}
	if s.pendingSince.IsZero() {
		s.pendingSince = now
	}
	if now.Sub(s.pendingSince) >= EscapeDelay {
		s.pendingSince = time.Time{}
		return buf
	}
	s.pending = append([]byte(nil), buf[len(buf)-n:]...)
	return buf[:len(buf)-n]
}

// partialEscape returns the length of an unfinished CSI prefix at the end of buf.
func partialEscape(buf []byte) int {
	switch n := len(buf); {
	case n >= 1 && buf[n-1] == '\x1b':
		return 1
	case n >= 2 && buf[n-2] == '\x1b' && buf[n-1] == '[':
		return 2
	}
	return 0
}

func (s *Stream) drain() []byte {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

func arrowKey(code byte) (Key, bool) {
	switch code {
	case 'A':
		return KeyArrowUp, true
	case 'B':
		return KeyArrowDown, true
	case 'C':
		return KeyArrowRight, true
	case 'D':
		return KeyArrowLeft, true
	}
	return "", false
}

func byteKey(b byte) (Key, bool) {
	switch b {
	case 'w', 'W':
		return KeyW, true
	case 'a', 'A':
		return KeyA, true
	case 's', 'S':
		return KeyS, true
	case 'd', 'D':
		return KeyD, true
	case 'p', 'P':
		return KeyP, true
	case 'q', 'Q':
		return KeyQ, true
	case ' ':
		return KeySpace, true
	case '\n', '\r':
		return KeyEnter, true
	case '\b', '\x7f':
		return KeyBackspace, true
	case '\x1b':
		return KeyEscape, true
	}
	return "", false
}
