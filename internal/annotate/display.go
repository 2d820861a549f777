package annotate

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrStale is returned when a set is attached for a request that a newer one
// has superseded.
var ErrStale = errors.New("annotation request superseded by a newer request")

// Ticket identifies one detection request against a Display.
type Ticket struct {
	ID  string `json:"id"`
	seq uint64
}

// Display holds the single live annotation set of the displayed image.
//
// Every detection request calls Begin before running and Attach with the
// result. Begin clears the current set, so annotations never outlive the
// image they were built for, and only the most recent ticket may attach.
//
// Display is safe for concurrent use.
type Display struct {
	mu      sync.Mutex
	seq     uint64
	current *Set
}

// NewDisplay returns an empty display.
func NewDisplay() *Display {
	return &Display{}
}

// Begin starts a new request, superseding any outstanding one, and removes
// the current annotations.
func (d *Display) Begin() Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.current = nil
	return Ticket{ID: uuid.NewString(), seq: d.seq}
}

// Attach makes set the live annotation set. The previous set is removed
// first. It returns ErrStale, leaving the display untouched, when t is not
// the most recent ticket.
func (d *Display) Attach(t Ticket, set *Set) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t.seq != d.seq {
		return ErrStale
	}
	d.current = set
	return nil
}

// Current returns the live set, if any.
func (d *Display) Current() (*Set, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, d.current != nil
}

// Clear removes the live set and returns how many annotations it held.
// Outstanding tickets stay valid.
func (d *Display) Clear() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.current.Len()
	d.current = nil
	return n
}
