package sound

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/tuixp/internal/wm"
)

func TestNotify(t *testing.T) {
	tests := []struct {
		kind  wm.EventKind
		bells int
	}{
		{wm.Opened, 1},
		{wm.Closed, 1},
		{wm.Minimized, 1},
		{wm.Maximized, 1},
		{wm.Focused, 0},
		{wm.Moved, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPlayer(&buf)
			if err := p.Notify(tt.kind); err != nil {
				t.Fatalf("Notify: %v", err)
			}
			if got := strings.Count(buf.String(), "\a"); got != tt.bells {
				t.Errorf("bells = %d, want %d", got, tt.bells)
			}
		})
	}
}

func TestVolumeAndMute(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf)

	p.SetVolume(2)
	if p.Volume() != 1 {
		t.Errorf("volume = %v, want clamp to 1", p.Volume())
	}
	p.SetVolume(0.5)
	_ = p.Play(Startup)
	if got := strings.Count(buf.String(), "\a"); got != 2 {
		t.Errorf("half-volume startup bells = %d, want 2", got)
	}

	buf.Reset()
	p.SetVolume(-1)
	_ = p.Play(Startup)
	if buf.Len() != 0 {
		t.Error("volume 0 still rang")
	}

	p.SetVolume(math.NaN())
	if p.Volume() != 0 {
		t.Errorf("NaN volume = %v, want 0", p.Volume())
	}
	_ = p.Play(Startup)
	if buf.Len() != 0 {
		t.Error("NaN volume rang")
	}

	p.SetVolume(1)
	if !p.ToggleMute() {
		t.Fatal("ToggleMute should report muted")
	}
	_ = p.Play(Logon)
	if buf.Len() != 0 {
		t.Error("muted player rang")
	}
	p.Unmute()
	p.SetEnabled(Logon, false)
	_ = p.Play(Logon)
	if buf.Len() != 0 {
		t.Error("disabled sound rang")
	}
	_ = p.Play(WindowOpen)
	if buf.Len() != 1 {
		t.Errorf("wrote %d bytes, want 1", buf.Len())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestPlayError(t *testing.T) {
	p := NewPlayer(failingWriter{})
	if err := p.Play(WindowClose); err == nil {
		t.Error("expected write error")
	}
}
