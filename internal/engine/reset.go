package engine

// Resettable is state that can be wiped back to its initial value.
type Resettable interface {
	Reset()
}

// ResetFunc adapts a function to Resettable.
type ResetFunc func()

func (f ResetFunc) Reset() { f() }

// Reset wipes a declared set of state and then runs its hooks.
type Reset struct {
	ID string

	things []Resettable
	hooks  []func()
	count  int
}

func NewReset(id string, things ...Resettable) *Reset {
	return &Reset{ID: id, things: append([]Resettable(nil), things...)}
}

// Add declares more state to wipe.
func (r *Reset) Add(things ...Resettable) {
	r.things = append(r.things, things...)
}

// OnReset registers fn to run after every wipe or notification.
func (r *Reset) OnReset(fn func()) {
	r.hooks = append(r.hooks, fn)
}

// Reset wipes every declared thing, then runs the hooks. With nothing
// declared it only runs the hooks.
func (r *Reset) Reset() {
	for _, t := range r.things {
		t.Reset()
	}
	r.Notify()
}

// Notify runs the hooks without wiping, letting listeners such as reset
// timers react to a reset driven from elsewhere.
func (r *Reset) Notify() {
	r.count++
	for _, fn := range r.hooks {
		fn()
	}
}

// Count is how many times the reset has fired, notifications included.
func (r *Reset) Count() int { return r.count }
