package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// ActionDescriptions maps every bindable action to its help text.
var ActionDescriptions = map[string]string{
	"close_window":      "Close window",
	"minimize_window":   "Minimize window",
	"maximize_window":   "Maximize / restore window",
	"next_window":       "Next window",
	"prev_window":       "Previous window",
	"toggle_start_menu": "Open start menu",
	"launch_computer":   "Open My Computer",
	"launch_notepad":    "Open Notepad",
	"launch_gallery":    "Open My Gallery",
	"launch_about":      "Open About",
	"toggle_logs":       "Toggle log viewer",
	"toggle_mute":       "Mute / unmute sounds",
	"toggle_help":       "Toggle help",
	"quit":              "Quit",
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds a registry from the configured bindings. When two
// actions claim the same key, the first in sorted action order wins.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, section := range []map[string][]string{
		cfg.Keybindings.Windows,
		cfg.Keybindings.Desktop,
		cfg.Keybindings.System,
	} {
		actions := make([]string, 0, len(section))
		for action := range section {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		for _, action := range actions {
			r.bind(action, section[action])
		}
	}
	return r
}

func (r *KeybindRegistry) bind(action string, keys []string) {
	for _, key := range keys {
		if ok, _ := r.normalizer.ValidateKey(key); !ok {
			continue
		}
		r.actionToKeys[action] = append(r.actionToKeys[action], key)
		for _, k := range r.normalizer.NormalizeKey(key) {
			if _, taken := r.keyToAction[k]; !taken {
				r.keyToAction[k] = action
			}
		}
	}
}

// GetKeys returns the keys bound to action, as configured.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return slices.Clone(r.actionToKeys[action])
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	for _, k := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[k]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys for action formatted for the help
// overlay, e.g. "Alt+F4, Ctrl+W".
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.actionToKeys[action]
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = displayKey(k)
	}
	return strings.Join(out, ", ")
}

// Actions returns every bound action in sorted order.
func (r *KeybindRegistry) Actions() []string {
	out := make([]string, 0, len(r.actionToKeys))
	for a := range r.actionToKeys {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func displayKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch p {
		case "ctrl", "alt", "shift", "super", "tab", "enter", "esc", "home", "end":
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		case "up":
			parts[i] = "↑"
		case "down":
			parts[i] = "↓"
		case "left":
			parts[i] = "←"
		case "right":
			parts[i] = "→"
		default:
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "+")
}

// KeyNormalizer canonicalizes key strings so configured keys match the
// strings bubbletea reports.
type KeyNormalizer struct {
	aliases map[string][]string
}

// NewKeyNormalizer returns a normalizer with the common key aliases.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{aliases: map[string][]string{
		"return": {"enter"},
		"enter":  {"return"},
		"escape": {"esc"},
		"esc":    {"escape"},
		"del":    {"delete"},
		"delete": {"del"},
		"pgup":   {"pageup"},
		"pgdown": {"pagedown"},
		"space":  {" "},
	}}
}

var modifierOrder = []string{"ctrl", "alt", "shift", "super"}

// NormalizeKey lowercases modifiers, orders them ctrl, alt, shift, super and
// expands aliases. The first element is the canonical form.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	parts := strings.Split(key, "+")
	base := parts[len(parts)-1]
	if base == "" && len(parts) > 1 {
		// "ctrl++" style keys
		base = "+"
		parts = parts[:len(parts)-2]
	} else {
		parts = parts[:len(parts)-1]
	}

	mods := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(p)
		if p == "control" {
			p = "ctrl"
		}
		if p == "option" || p == "meta" {
			p = "alt"
		}
		if !slices.Contains(mods, p) {
			mods = append(mods, p)
		}
	}
	slices.SortFunc(mods, func(a, b string) int {
		return slices.Index(modifierOrder, a) - slices.Index(modifierOrder, b)
	})

	if len([]rune(base)) > 1 || len(mods) > 0 {
		base = strings.ToLower(base)
	}

	join := func(b string) string {
		return strings.Join(append(slices.Clone(mods), b), "+")
	}
	out := []string{join(base)}
	for _, alias := range n.aliases[base] {
		out = append(out, join(alias))
	}
	return out
}

// ValidateKey reports whether key is usable, with a reason when it is not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "key is empty"
	}
	parts := strings.Split(key, "+")
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl", "control", "alt", "option", "meta", "shift", "super", "":
		default:
			return false, fmt.Sprintf("unknown modifier %q", p)
		}
	}
	return true, ""
}

// GetKeybindings returns the help overlay's sections. A nil registry uses the
// default bindings.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	groups := []struct {
		title   string
		actions []string
	}{
		{"WINDOWS", []string{"close_window", "minimize_window", "maximize_window", "next_window", "prev_window"}},
		{"DESKTOP", []string{"toggle_start_menu", "launch_computer", "launch_notepad", "launch_gallery", "launch_about"}},
		{"SYSTEM", []string{"toggle_logs", "toggle_mute", "toggle_help", "quit"}},
	}

	var sections []KeybindingSection
	for _, g := range groups {
		section := KeybindingSection{Title: g.title}
		for _, action := range g.actions {
			addBinding(&section, registry, action, ActionDescriptions[action])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return append(sections, mouseSection())
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

func mouseSection() KeybindingSection {
	return KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Drag title bar", "Move window"},
			{"Drag border", "Resize window"},
			{"Double-click title", "Maximize / restore"},
			{"Double-click icon", "Open application"},
			{"Right-click", "Context menu"},
			{"Click taskbar button", "Focus / restore window"},
		},
	}
}
