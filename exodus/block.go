package exodus

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-exodus/internal/container"
	"github.com/robert-malhotra/go-exodus/internal/slots"
)

// DefaultConnectivityChunk is the byte budget used by PutElemConnectivity
// when the caller passes a non-positive chunk size.
const DefaultConnectivityChunk = 128 << 20

// PutElemBlockInfo allocates an element block: it claims the first free
// block slot, records the external id, and creates the block's connectivity
// array of shape (numElems × nodesPerElem).
//
// The block's element count may not exceed the file's total element count,
// per-element attributes are unsupported (attrsPerElem must be 0), and ids
// must be unique across blocks.
func (f *File) PutElemBlockInfo(id int64, elemType string, numElems, nodesPerElem, attrsPerElem int) error {
	if f.closed {
		return ErrClosed
	}
	if numElems < 0 || numElems > f.params.NumElems {
		return fmt.Errorf("%w: block has %d elements, file has %d", ErrValidation, numElems, f.params.NumElems)
	}
	if nodesPerElem < 1 {
		return fmt.Errorf("%w: nodes per element must be positive, got %d", ErrValidation, nodesPerElem)
	}
	if attrsPerElem != 0 {
		return fmt.Errorf("%w: per-element attributes are not supported, got %d", ErrValidation, attrsPerElem)
	}

	slot, err := f.blocks.Claim(id)
	if err != nil {
		if errors.Is(err, slots.ErrFull) {
			return fmt.Errorf("%w: all %d element block slots claimed", ErrCapacity, f.blocks.Capacity())
		}
		return fmt.Errorf("%w: element block id %d already exists", ErrValidation, id)
	}

	if err := f.c.DefineDimension(fmt.Sprintf("num_el_in_blk%d", slot), numElems); err != nil {
		return err
	}
	if err := f.c.DefineDimension(fmt.Sprintf("num_nod_per_el%d", slot), nodesPerElem); err != nil {
		return err
	}

	connect := fmt.Sprintf("connect%d", slot)
	dims := []string{fmt.Sprintf("num_el_in_blk%d", slot), fmt.Sprintf("num_nod_per_el%d", slot)}
	if err := f.c.CreateVariable(connect, dims, container.Int32); err != nil {
		return err
	}
	if err := f.c.SetVarAttr(connect, "elem_type", elemType); err != nil {
		return err
	}

	f.blockShapes[slot] = blockShape{numElems: numElems, nodesPerElem: nodesPerElem}

	f.logger.Debug("allocated element block",
		"id", id, "slot", slot, "type", elemType,
		"elems", numElems, "nodes_per_elem", nodesPerElem)
	return nil
}

// PutElemBlockName writes the display name for an element block.
func (f *File) PutElemBlockName(id int64, name string) error {
	if f.closed {
		return ErrClosed
	}
	slot, ok := f.blocks.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: element block id %d", ErrNotFound, id)
	}
	return f.putName("eb_names", slot, name)
}

// PutElemConnectivity writes a block's connectivity as a flat array of
// numElems × nodesPerElem node indices. The block must have been allocated
// with PutElemBlockInfo.
//
// shift is added to every index before writing, converting 0-based caller
// indexing to the 1-based indexing Exodus requires. With a zero shift the
// array is written in one operation; with a nonzero shift it is processed in
// row-bounded chunks so peak extra memory stays within chunkBytes (the
// default budget applies when chunkBytes is not positive).
func (f *File) PutElemConnectivity(id int64, conn []int32, shift int32, chunkBytes int) error {
	if f.closed {
		return ErrClosed
	}
	slot, ok := f.blocks.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: element block id %d", ErrNotFound, id)
	}
	shape := f.blockShapes[slot]
	if len(conn) != shape.numElems*shape.nodesPerElem {
		return fmt.Errorf("%w: connectivity has %d entries, want %d (%d elems × %d nodes)",
			ErrValidation, len(conn), shape.numElems*shape.nodesPerElem, shape.numElems, shape.nodesPerElem)
	}

	connect := fmt.Sprintf("connect%d", slot)
	if shift == 0 {
		return f.c.PutSlice(connect, 0, conn)
	}

	if chunkBytes <= 0 {
		chunkBytes = DefaultConnectivityChunk
	}
	rowBytes := shape.nodesPerElem * 4
	rowsPerChunk := chunkBytes / rowBytes
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}

	scratch := make([]int32, 0, min(rowsPerChunk, shape.numElems)*shape.nodesPerElem)
	for row := 0; row < shape.numElems; row += rowsPerChunk {
		end := min(row+rowsPerChunk, shape.numElems)
		part := conn[row*shape.nodesPerElem : end*shape.nodesPerElem]
		scratch = scratch[:len(part)]
		for i, v := range part {
			scratch[i] = v + shift
		}
		if err := f.c.PutSlice(connect, row*shape.nodesPerElem, scratch); err != nil {
			return err
		}
	}
	f.logger.Debug("wrote connectivity", "id", id, "slot", slot, "shift", shift, "rows_per_chunk", rowsPerChunk)
	return nil
}
