package filter

import "github.com/pkg/errors"

// ErrLocked is returned when a global filter change is attempted after the first region edit.
var ErrLocked = errors.New("filter: global color filter is locked after the first edit")

// Lock is a one-way latch. It starts open and closes on the first region edit; only an
// explicit Release (image load or full reset) reopens it.
type Lock struct {
	locked bool
}

// Engage closes the latch. It reports whether this call changed the state.
func (l *Lock) Engage() bool {
	if l.locked {
		return false
	}
	l.locked = true
	return true
}

// Locked reports whether the latch is closed.
func (l *Lock) Locked() bool { return l.locked }

// Check returns ErrLocked when the latch is closed.
func (l *Lock) Check() error {
	if l.locked {
		return ErrLocked
	}
	return nil
}

// Release reopens the latch.
func (l *Lock) Release() { l.locked = false }
