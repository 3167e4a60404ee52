package apps

import (
	"time"

	"github.com/charmbracelet/log"
)

// CatalogOptions supplies what the built-in applications depend on.
type CatalogOptions struct {
	// Size returns the window size for kind; zero values select the
	// window manager's default.
	Size     func(kind Kind) (width, height int)
	Notes    NoteStore
	Autosave time.Duration
	Probe    Probe
	Version  string
	Logger   *log.Logger
	// Settings returns the current preferences for Display Properties.
	Settings func() Settings
}

// Icons used on the desktop, in the taskbar and in title bars.
var Icons = map[Kind]string{
	Computer: "▣",
	Notepad:  "✎",
	Gallery:  "▦",
	About:    "ⓘ",
	Display:  "◐",
}

// Titles of the built-in applications.
var Titles = map[Kind]string{
	Computer: "My Computer",
	Notepad:  NotepadTitle,
	Gallery:  "My Gallery",
	About:    "About",
	Display:  "Display Properties",
}

// Catalog returns the launcher registrations of the built-in applications.
func Catalog(o CatalogOptions) map[Kind]Spec {
	size := func(k Kind) (int, int) {
		if o.Size == nil {
			return 0, 0
		}
		return o.Size(k)
	}
	settings := func() Settings {
		if o.Settings == nil {
			return Settings{Volume: 1, ClockFormat: "12h"}
		}
		return o.Settings()
	}

	var notes NoteStore
	if t := trackNotes(o.Notes); t != nil {
		notes = t
	}

	factories := map[Kind]func() Body{
		Computer: func() Body { return NewComputer(o.Probe, o.Logger) },
		Notepad:  func() Body { return NewNotepad(notes, o.Autosave, o.Logger) },
		Gallery:  func() Body { return NewGallery() },
		About:    func() Body { return NewAbout(o.Version) },
		Display:  func() Body { return NewDisplay(settings()) },
	}

	specs := make(map[Kind]Spec, len(factories))
	for kind, newBody := range factories {
		w, h := size(kind)
		specs[kind] = Spec{
			Title:  Titles[kind],
			Icon:   Icons[kind],
			Width:  w,
			Height: h,
			New:    newBody,
		}
	}
	return specs
}
