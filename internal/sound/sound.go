// Package sound plays the desktop's system sounds. A terminal has no mixer,
// so a sound is rendered as the terminal bell, repeated according to the
// sound's weight and the current volume.
package sound

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

// Name identifies a system sound.
type Name string

// System sounds.
const (
	Startup     Name = "startup"
	Logon       Name = "logon"
	WindowOpen  Name = "windowOpen"
	WindowClose Name = "windowClose"
	Minimize    Name = "minimize"
	Maximize    Name = "maximize"
)

// Names lists every system sound.
func Names() []Name {
	return []Name{Startup, Logon, WindowOpen, WindowClose, Minimize, Maximize}
}

// weight is the number of bells a sound rings at full volume.
var weight = map[Name]int{
	Startup:     3,
	Logon:       2,
	WindowOpen:  1,
	WindowClose: 1,
	Minimize:    1,
	Maximize:    1,
}

// ForEvent returns the sound for a window manager notification.
func ForEvent(kind wm.EventKind) (Name, bool) {
	switch kind {
	case wm.Opened:
		return WindowOpen, true
	case wm.Closed:
		return WindowClose, true
	case wm.Minimized:
		return Minimize, true
	case wm.Maximized:
		return Maximize, true
	default:
		return "", false
	}
}

const bell = "\a"

// Player writes bells to a terminal. It is safe for concurrent use.
type Player struct {
	mu      sync.Mutex
	out     io.Writer
	muted   bool
	volume  float64
	enabled map[Name]bool
}

// NewPlayer returns a player writing to out at full volume with every sound
// enabled. A nil writer discards everything.
func NewPlayer(out io.Writer) *Player {
	if out == nil {
		out = io.Discard
	}
	p := &Player{out: out, volume: 1, enabled: make(map[Name]bool)}
	for _, n := range Names() {
		p.enabled[n] = true
	}
	return p
}

// Notify implements wm.Notifier.
func (p *Player) Notify(kind wm.EventKind) error {
	name, ok := ForEvent(kind)
	if !ok {
		return nil
	}
	return p.Play(name)
}

// Play rings the named sound. Muted players, disabled sounds and volume 0
// play nothing.
func (p *Player) Play(name Name) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted || !p.enabled[name] {
		return nil
	}
	n := int(math.Ceil(float64(weight[name]) * p.volume))
	if n <= 0 {
		return nil
	}
	if _, err := p.out.Write(bytes.Repeat([]byte(bell), n)); err != nil {
		return fmt.Errorf("play %s: %w", name, err)
	}
	return nil
}

// SetEnabled turns a single sound on or off.
func (p *Player) SetEnabled(name Name, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled[name] = on
}

// Enabled reports whether a sound is turned on.
func (p *Player) Enabled(name Name) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled[name]
}

// Mute silences the player.
func (p *Player) Mute() {
	p.mu.Lock()
	p.muted = true
	p.mu.Unlock()
}

// Unmute re-enables playback.
func (p *Player) Unmute() {
	p.mu.Lock()
	p.muted = false
	p.mu.Unlock()
}

// ToggleMute flips the mute state and returns the new value.
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Muted reports whether the player is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// SetVolume sets the volume, clamped to [0, 1]. NaN mutes.
func (p *Player) SetVolume(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(0, min(1, v))
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}
