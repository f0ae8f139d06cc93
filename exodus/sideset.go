package exodus

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-exodus/internal/container"
	"github.com/robert-malhotra/go-exodus/internal/slots"
)

// PutSideSetParams allocates a side set: it claims the next side-set slot,
// records the external id, and creates the set's element and side index
// arrays, both of length numSides.
//
// Distribution factors are unsupported (numDistFacts must be 0) and ids
// must be unique across side sets.
func (f *File) PutSideSetParams(id int64, numSides, numDistFacts int) error {
	if f.closed {
		return ErrClosed
	}
	if numDistFacts != 0 {
		return fmt.Errorf("%w: distribution factors are not supported, got %d", ErrValidation, numDistFacts)
	}
	if numSides < 0 {
		return fmt.Errorf("%w: negative side count %d", ErrValidation, numSides)
	}

	slot, err := f.sideSets.Claim(id)
	if err != nil {
		if errors.Is(err, slots.ErrDuplicateID) {
			return fmt.Errorf("%w: side set id %d already exists", ErrValidation, id)
		}
		return fmt.Errorf("%w: all %d side set slots claimed", ErrCapacity, f.sideSets.Capacity())
	}

	dim := fmt.Sprintf("num_side_ss%d", slot)
	if err := f.c.DefineDimension(dim, numSides); err != nil {
		return err
	}
	if err := f.c.CreateVariable(fmt.Sprintf("elem_ss%d", slot), []string{dim}, container.Int32); err != nil {
		return err
	}
	if err := f.c.CreateVariable(fmt.Sprintf("side_ss%d", slot), []string{dim}, container.Int32); err != nil {
		return err
	}

	f.sideCount[slot] = numSides

	f.logger.Debug("allocated side set", "id", id, "slot", slot, "sides", numSides)
	return nil
}

// PutSideSet writes a side set's parallel element and local-side index
// arrays. The set must have been allocated with PutSideSetParams; both
// arrays must hold exactly the declared side count. The arrays are written
// in one operation each.
func (f *File) PutSideSet(id int64, elements, sides []int32) error {
	if f.closed {
		return ErrClosed
	}
	slot, ok := f.sideSets.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: side set id %d", ErrNotFound, id)
	}
	count := f.sideCount[slot]
	if len(elements) != count {
		return fmt.Errorf("%w: %d elements, side set declared %d sides", ErrValidation, len(elements), count)
	}
	if len(sides) != count {
		return fmt.Errorf("%w: %d sides, side set declared %d sides", ErrValidation, len(sides), count)
	}

	if err := f.c.PutSlice(fmt.Sprintf("elem_ss%d", slot), 0, elements); err != nil {
		return err
	}
	return f.c.PutSlice(fmt.Sprintf("side_ss%d", slot), 0, sides)
}

// PutSideSetName writes the display name for a side set.
func (f *File) PutSideSetName(id int64, name string) error {
	if f.closed {
		return ErrClosed
	}
	slot, ok := f.sideSets.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: side set id %d", ErrNotFound, id)
	}
	return f.putName("ss_names", slot, name)
}
