// Package input turns raw key codes into a dice selection (count and type) and
// a dirty flag the simulation clock consumes once per change.
package input

import "github.com/san-kum/dicesim/internal/dice"

const (
	KeySpace = 32
	KeyLeft  = 37
	KeyUp    = 38
	KeyRight = 39
	KeyDown  = 40
)

const (
	MinCount = 1
	MaxCount = 5
)

type Intent int

const (
	Idle Intent = iota
	Increase
	Decrease
	Next
	Previous
)

func (i Intent) String() string {
	switch i {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return "idle"
	}
}

// Selection is the requested pool configuration.
type Selection struct {
	Count     int
	TypeIndex int
}

// Faces returns the face count of the selected type.
func (s Selection) Faces() int {
	return dice.FaceCounts[s.TypeIndex]
}

type axis struct {
	intent Intent
	held   int
}

// Tracker holds the per-axis intents and the current selection. It is driven
// from a single goroutine: key events and Advance happen between ticks.
type Tracker struct {
	RepeatDelay    int
	RepeatInterval int

	sel   Selection
	count axis
	kind  axis
	dirty bool
	throw bool
}

func NewTracker(initial Selection) *Tracker {
	return &Tracker{sel: clamp(initial)}
}

func clamp(s Selection) Selection {
	if s.Count < MinCount {
		s.Count = MinCount
	}
	if s.Count > MaxCount {
		s.Count = MaxCount
	}
	n := len(dice.FaceCounts)
	s.TypeIndex = ((s.TypeIndex % n) + n) % n
	return s
}

func (t *Tracker) Selection() Selection { return t.sel }

// Intents returns the active count and type intents.
func (t *Tracker) Intents() (count, kind Intent) {
	return t.count.intent, t.kind.intent
}

// KeyDown activates the intent bound to code and applies it once. A repeated
// key-down for an already held key is ignored; Advance handles the repeat.
func (t *Tracker) KeyDown(code int) {
	switch code {
	case KeyUp:
		t.press(&t.count, Increase)
	case KeyDown:
		t.press(&t.count, Decrease)
	case KeyRight:
		t.press(&t.kind, Next)
	case KeyLeft:
		t.press(&t.kind, Previous)
	case KeySpace:
		t.RequestThrow()
	}
}

// KeyUp clears the intent bound to code. The selection and dirty flag stay.
func (t *Tracker) KeyUp(code int) {
	switch code {
	case KeyUp:
		t.release(&t.count, Increase)
	case KeyDown:
		t.release(&t.count, Decrease)
	case KeyRight:
		t.release(&t.kind, Next)
	case KeyLeft:
		t.release(&t.kind, Previous)
	}
}

func (t *Tracker) press(a *axis, in Intent) {
	if a.intent == in {
		return
	}
	a.intent = in
	a.held = 0
	t.apply(in)
}

func (t *Tracker) release(a *axis, in Intent) {
	if a.intent == in {
		a.intent = Idle
		a.held = 0
	}
}

// Advance is called once per tick and re-applies held intents.
func (t *Tracker) Advance() {
	t.repeat(&t.count)
	t.repeat(&t.kind)
}

func (t *Tracker) repeat(a *axis) {
	if a.intent == Idle || t.RepeatDelay <= 0 {
		return
	}
	a.held++
	if a.held < t.RepeatDelay {
		return
	}
	if a.held == t.RepeatDelay || (t.RepeatInterval > 0 && (a.held-t.RepeatDelay)%t.RepeatInterval == 0) {
		t.apply(a.intent)
	}
}

func (t *Tracker) apply(in Intent) {
	n := len(dice.FaceCounts)
	switch in {
	case Increase:
		if t.sel.Count < MaxCount {
			t.sel.Count++
			t.dirty = true
		}
	case Decrease:
		if t.sel.Count > MinCount {
			t.sel.Count--
			t.dirty = true
		}
	case Next:
		t.sel.TypeIndex = (t.sel.TypeIndex + 1) % n
		t.dirty = true
	case Previous:
		t.sel.TypeIndex = (t.sel.TypeIndex + n - 1) % n
		t.dirty = true
	}
}

// Dirty reports a pending rebuild without consuming it.
func (t *Tracker) Dirty() bool { return t.dirty }

// ConsumeDirty returns the dirty flag and clears it.
func (t *Tracker) ConsumeDirty() bool {
	d := t.dirty
	t.dirty = false
	return d
}

func (t *Tracker) RequestThrow() { t.throw = true }

func (t *Tracker) ConsumeThrow() bool {
	r := t.throw
	t.throw = false
	return r
}
