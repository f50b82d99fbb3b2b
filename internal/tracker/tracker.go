// Package tracker resolves the active heading of a reader session from the
// intersection events the shell forwards. The shell observes every heading
// element in the rendered page and reports enter/exit transitions; the
// tracker keeps the working set and picks the heading with the smallest
// dotted ID. Every document load gets a fresh epoch so events from a torn
// down observer cannot touch the new document's state.
package tracker

import "github.com/juliankahlert/the-almanac-of-codecraft/internal/outline"

// Observation constants the shell applies when it attaches its observer.
const (
	// Threshold is the visible-area fraction at which a heading counts as
	// intersecting.
	Threshold = 0.5
)

// Tracker is owned by one session loop and not safe for concurrent use.
type Tracker struct {
	epoch    uint64
	visible  map[string]bool
	active   string
	disabled bool
}

// New returns an unarmed tracker. Reset arms it for a document load.
func New() *Tracker {
	return &Tracker{visible: make(map[string]bool)}
}

// Reset drops the working set and the active heading and accepts events for
// the given epoch only. Called on every document load, after the previous
// observer has been torn down.
func (t *Tracker) Reset(epoch uint64) {
	t.epoch = epoch
	t.visible = make(map[string]bool)
	t.active = ""
}

// Teardown clears all observation state. Events arriving afterwards are
// discarded until the next Reset.
func (t *Tracker) Teardown() {
	t.visible = make(map[string]bool)
	t.active = ""
	t.epoch = 0
}

// Disable turns the tracker off for shells without intersection support.
// No heading is ever marked active; the flag survives document loads.
func (t *Tracker) Disable() {
	t.disabled = true
	t.visible = make(map[string]bool)
	t.active = ""
}

// Active returns the current active heading ID, or "" before the first
// resolution.
func (t *Tracker) Active() string {
	return t.active
}

// Observe ingests one intersection transition for the heading element with
// the given ID and returns the active heading plus whether it changed.
// Events whose epoch does not match the current load are stale and ignored.
// An empty working set leaves the previous active heading in place so the
// selection never flickers to none mid-scroll.
func (t *Tracker) Observe(epoch uint64, id string, entering bool) (string, bool) {
	// epoch 0 is the unarmed state, never a valid load.
	if t.disabled || t.epoch == 0 || epoch != t.epoch || id == "" {
		return t.active, false
	}

	if entering {
		t.visible[id] = true
	} else {
		delete(t.visible, id)
	}

	if len(t.visible) == 0 {
		return t.active, false
	}

	smallest := ""
	for id := range t.visible {
		if smallest == "" || outline.CompareIDs(id, smallest) < 0 {
			smallest = id
		}
	}
	if smallest == t.active {
		return t.active, false
	}
	t.active = smallest
	return t.active, true
}
