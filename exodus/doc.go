// Package exodus writes finite-element mesh and result files in the
// Exodus II schema.
//
// An Exodus file is a fixed layout over a self-describing container of named
// dimensions, named multi-dimensional variables and attributes. This package
// owns the schema: how element blocks, side sets, variables and time steps
// map onto container names and shapes, and the invariants that keep that
// mapping consistent. The container itself (storage and on-disk encoding) is
// internal.
//
// # Creating a file
//
// Files are write-only and created exclusively; an existing file at the path
// is an error:
//
//	f, err := exodus.Create("mesh.exo", exodus.CreateParams{
//		Title:     "tetrahedral mesh",
//		NumDims:   3,
//		NumNodes:  4,
//		NumElems:  1,
//		NumBlocks: 1,
//	})
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	err = f.PutCoords(x, y, z)
//	err = f.PutElemBlockInfo(100, "TETRA", 1, 4, 0)
//	err = f.PutElemConnectivity(100, []int32{1, 2, 3, 4}, 0, 0)
//
// Close is idempotent, so closing explicitly after a deferred Close is safe.
//
// # Entities and ids
//
// Element blocks and side sets are identified by a caller-chosen external
// id. Internally each claims a 1-based slot in a fixed-capacity catalog in
// first-free order; the external id is recorded in the catalog's property
// array (eb_prop1, ss_prop1) and the slot is marked claimed in its status
// array. External ids must be unique per catalog.
//
// # Variables and time
//
// Global, element and node variable catalogs are declared once with a fixed
// count, then named and written by 1-based index or by name. Node and global
// value arrays exist from declaration; element value arrays are created on
// first write, one per (variable, block) pair. The time axis is fixed at a
// single step.
//
// # Errors
//
// Failures wrap one of the sentinel errors [ErrValidation], [ErrNotFound],
// [ErrCapacity] and [ErrClosed], so callers can classify with [errors.Is].
// Operations fail synchronously and leave the file open and usable.
package exodus
