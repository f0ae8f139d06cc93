package slots

import "fmt"

// ErrFull is returned by Claim when every slot in the catalog is taken.
var ErrFull = fmt.Errorf("no free slot")

// ErrDuplicateID is returned by Claim when the external id is already bound
// to another slot.
var ErrDuplicateID = fmt.Errorf("duplicate external id")

// Tracker manages the claimed/free state of a fixed-capacity entity catalog.
// Slot indices are 1-based; slot 0 does not exist.
type Tracker struct {
	// claimed[i] is true when slot i+1 is taken.
	claimed []bool

	// ids[i] holds the external id bound to slot i+1; valid only where
	// claimed[i] is true.
	ids []int64

	// byID resolves an external id to its 1-based slot.
	byID map[int64]int

	// next is the lowest index that may still be free, so repeated claims
	// do not rescan the full array.
	next int

	stats Stats
}

// Stats contains claim statistics.
type Stats struct {
	Capacity int // Total number of slots
	Claimed  int // Number of claimed slots
}

// New creates a tracker for a catalog with the given capacity.
func New(capacity int) *Tracker {
	if capacity < 0 {
		capacity = 0
	}
	return &Tracker{
		claimed: make([]bool, capacity),
		ids:     make([]int64, capacity),
		byID:    make(map[int64]int, capacity),
		stats:   Stats{Capacity: capacity},
	}
}

// Claim takes the first free slot, binds it to the external id, and returns
// its 1-based index. It returns ErrFull when the catalog is exhausted and
// ErrDuplicateID when the id is already bound.
func (t *Tracker) Claim(id int64) (int, error) {
	if _, ok := t.byID[id]; ok {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	for i := t.next; i < len(t.claimed); i++ {
		if t.claimed[i] {
			continue
		}
		t.claimed[i] = true
		t.ids[i] = id
		t.byID[id] = i + 1
		t.next = i + 1
		t.stats.Claimed++
		return i + 1, nil
	}
	return 0, ErrFull
}

// Lookup resolves an external id to its 1-based slot index.
func (t *Tracker) Lookup(id int64) (int, bool) {
	slot, ok := t.byID[id]
	return slot, ok
}

// ID returns the external id bound to the given 1-based slot.
func (t *Tracker) ID(slot int) (int64, bool) {
	if slot < 1 || slot > len(t.claimed) || !t.claimed[slot-1] {
		return 0, false
	}
	return t.ids[slot-1], true
}

// Capacity returns the total number of slots.
func (t *Tracker) Capacity() int {
	return len(t.claimed)
}

// Claimed returns the number of claimed slots.
func (t *Tracker) Claimed() int {
	return t.stats.Claimed
}

// Stats returns a copy of the claim statistics.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// StatusRow returns the catalog's status array in on-disk form: 1 for
// claimed slots, 0 for free ones.
func (t *Tracker) StatusRow() []int32 {
	row := make([]int32, len(t.claimed))
	for i, c := range t.claimed {
		if c {
			row[i] = 1
		}
	}
	return row
}

// PropertyRow returns the catalog's property array in on-disk form: the
// external id at claimed slots, unassigned elsewhere.
func (t *Tracker) PropertyRow(unassigned int32) []int32 {
	row := make([]int32, len(t.claimed))
	for i := range row {
		if t.claimed[i] {
			row[i] = int32(t.ids[i])
		} else {
			row[i] = unassigned
		}
	}
	return row
}
