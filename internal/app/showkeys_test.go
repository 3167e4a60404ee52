package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestCaptureKeyEvent(t *testing.T) {
	o := newTestOS(t, nil)
	o.CaptureKeyEvent(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if len(o.RecentKeys) != 0 {
		t.Fatal("captured keys with showkeys off")
	}

	o.ShowKeys = true
	o.CaptureKeyEvent(tea.KeyPressMsg{Code: 'a', Text: "a"})
	o.CaptureKeyEvent(tea.KeyPressMsg{Code: 'a', Text: "a"})
	o.CaptureKeyEvent(tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModCtrl})
	if len(o.RecentKeys) != 2 {
		t.Fatalf("got %d entries, want 2", len(o.RecentKeys))
	}
	if got := o.RecentKeys[0].String(); got != "a ×2" {
		t.Errorf("first = %q", got)
	}
	if got := o.RecentKeys[1].String(); got != "Ctrl + ←" {
		t.Errorf("second = %q", got)
	}

	for _, r := range "bcdefg" {
		o.CaptureKeyEvent(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if len(o.RecentKeys) != keyHistorySize {
		t.Errorf("history holds %d, want %d", len(o.RecentKeys), keyHistorySize)
	}
}

func TestShowkeysMasksPassword(t *testing.T) {
	o := newTestOS(t, nil)
	o.Screen = LoginScreen
	o.ShowKeys = true
	o.CaptureKeyEvent(tea.KeyPressMsg{Code: 's', Text: "s"})
	if got := o.RecentKeys[0].Key; got != "•" {
		t.Errorf("login key shown as %q", got)
	}
}

func TestShowkeysExpire(t *testing.T) {
	o := newTestOS(t, nil)
	now := noon
	o.now = func() time.Time { return now }
	o.ShowKeys = true
	o.CaptureKeyEvent(tea.KeyPressMsg{Code: tea.KeyEnter})

	if !strings.Contains(o.renderShowkeys(), "Enter") {
		t.Error("overlay does not show Enter")
	}
	now = now.Add(keyTimeout + time.Second)
	o.CleanupExpiredKeys()
	if len(o.RecentKeys) != 0 || o.showkeysLayer() != nil {
		t.Error("expired key still shown")
	}
}
