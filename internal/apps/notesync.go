package apps

import (
	"context"
	"sync"
)

// trackedNotes is the store shared by the notepads of one desktop. A save is
// registered when it is issued; until the newest one completes, Load returns
// the text being written instead of reading the store.
type trackedNotes struct {
	NoteStore

	mu      sync.Mutex
	seq     int
	pending bool
	content string
}

// trackNotes wraps s, or returns it unchanged when it is already tracked.
func trackNotes(s NoteStore) *trackedNotes {
	if s == nil {
		return nil
	}
	if t, ok := s.(*trackedNotes); ok {
		return t
	}
	return &trackedNotes{NoteStore: s}
}

func (t *trackedNotes) begin(content string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.pending = true
	t.content = content
	return t.seq
}

func (t *trackedNotes) finish(seq int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq == t.seq {
		t.pending = false
		t.content = ""
	}
}

func (t *trackedNotes) Load(ctx context.Context) (string, error) {
	t.mu.Lock()
	if t.pending {
		content := t.content
		t.mu.Unlock()
		return content, nil
	}
	t.mu.Unlock()
	return t.NoteStore.Load(ctx)
}
