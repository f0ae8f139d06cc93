package exodus

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/charmbracelet/log"

	"github.com/robert-malhotra/go-exodus/internal/container"
	"github.com/robert-malhotra/go-exodus/internal/names"
	"github.com/robert-malhotra/go-exodus/internal/slots"
)

// Schema constants. Fixed-size dimensions and file attributes carry these
// values in every Exodus II file; they are not configurable.
const (
	lenString = 33
	lenLine   = 81
	lenName   = 33

	// maxNameLength is the value of the maximum_name_length attribute. The
	// name storage width (len_name) is one byte larger.
	maxNameLength = 32

	// timeStepCapacity is the size of the time_step dimension. The axis is
	// fixed at creation and does not grow.
	timeStepCapacity = 1

	// schemaVersion is written as both api_version and version.
	schemaVersion float32 = 6.30000019

	// unassignedID fills property arrays so that a claimed slot holding
	// id 0 stays distinguishable from a free one.
	unassignedID int32 = -1
)

// CreateParams holds the fixed sizing of a new file. All counts are fixed
// for the file's lifetime.
type CreateParams struct {
	Title       string
	NumDims     int // spatial dimensions, 2 or 3
	NumNodes    int
	NumElems    int
	NumBlocks   int // element block capacity
	NumNodeSets int // unsupported, must be 0
	NumSideSets int // side set capacity, may be 0
}

// blockShape is the per-slot sizing of an allocated element block.
type blockShape struct {
	numElems     int
	nodesPerElem int
}

// elemVarKey identifies a lazily created element-variable value array.
type elemVarKey struct {
	varIndex int
	blockID  int64
}

// File is an open Exodus II file. A File is owned by a single goroutine;
// operations must not be invoked concurrently.
type File struct {
	c      *container.File
	logger *log.Logger
	closed bool

	params    CreateParams
	wordSize  int
	floatType container.Type

	blocks      *slots.Tracker
	blockShapes map[int]blockShape // keyed by slot

	sideSets  *slots.Tracker
	sideCount map[int]int // keyed by slot

	numGlobalVars int
	numElemVars   int
	numNodeVars   int

	// elemVals maps (variable index, block id) to the created value array,
	// so lazy creation never probes the container by name.
	elemVals map[elemVarKey]string
}

// Create creates a new Exodus II file. Creation is exclusive and the file is
// write-only; there is no read or append mode.
func Create(path string, p CreateParams, opts ...Option) (*File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.wordSize != 4 && o.wordSize != 8 {
		return nil, fmt.Errorf("%w: word size must be 4 or 8, got %d", ErrValidation, o.wordSize)
	}
	if p.NumDims != 2 && p.NumDims != 3 {
		return nil, fmt.Errorf("%w: dimensionality must be 2 or 3, got %d", ErrValidation, p.NumDims)
	}
	if p.NumNodeSets != 0 {
		return nil, fmt.Errorf("%w: node sets are not supported, got %d", ErrValidation, p.NumNodeSets)
	}
	if p.NumNodes < 0 || p.NumElems < 0 || p.NumBlocks < 0 || p.NumSideSets < 0 {
		return nil, fmt.Errorf("%w: negative entity count", ErrValidation)
	}

	c, err := container.Create(path)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: file %q already exists", ErrValidation, path)
		}
		return nil, err
	}

	f := &File{
		c:           c,
		logger:      o.logger,
		params:      p,
		wordSize:    o.wordSize,
		floatType:   container.Float64,
		blocks:      slots.New(p.NumBlocks),
		blockShapes: make(map[int]blockShape),
		sideSets:    slots.New(p.NumSideSets),
		sideCount:   make(map[int]int),
		elemVals:    make(map[elemVarKey]string),
	}
	if o.wordSize == 4 {
		f.floatType = container.Float32
	}

	if err := f.initSchema(); err != nil {
		c.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	f.logger.Debug("created exodus file",
		"path", path, "dims", p.NumDims, "nodes", p.NumNodes,
		"elems", p.NumElems, "blocks", p.NumBlocks, "sidesets", p.NumSideSets)
	return f, nil
}

// initSchema writes the fixed attributes and dimensions and creates the
// variables every Exodus file contains.
func (f *File) initSchema() error {
	p := f.params

	attrs := []struct {
		name  string
		value interface{}
	}{
		{"api_version", schemaVersion},
		{"version", schemaVersion},
		{"floating_point_word_size", int32(f.wordSize)},
		{"file_size", int32(1)},
		{"maximum_name_length", int32(maxNameLength)},
		{"int64_status", int32(0)},
		{"title", p.Title},
	}
	for _, a := range attrs {
		if err := f.c.SetAttr(a.name, a.value); err != nil {
			return err
		}
	}

	dims := []struct {
		name string
		size int
	}{
		{"len_string", lenString},
		{"len_line", lenLine},
		{"four", 4},
		{"len_name", lenName},
		{"time_step", timeStepCapacity},
		{"num_dim", p.NumDims},
		{"num_nodes", p.NumNodes},
		{"num_elem", p.NumElems},
		{"num_el_blk", p.NumBlocks},
	}
	for _, d := range dims {
		if err := f.c.DefineDimension(d.name, d.size); err != nil {
			return err
		}
	}
	if p.NumSideSets > 0 {
		if err := f.c.DefineDimension("num_side_sets", p.NumSideSets); err != nil {
			return err
		}
	}

	if err := f.c.CreateVariable("coor_names", []string{"num_dim", "len_name"}, container.Char); err != nil {
		return err
	}
	for _, axis := range coordNames(p.NumDims) {
		if err := f.c.CreateVariable(axis, []string{"num_nodes"}, f.floatType); err != nil {
			return err
		}
	}

	if err := f.initCatalog("eb", "num_el_blk"); err != nil {
		return err
	}
	if p.NumSideSets > 0 {
		if err := f.initCatalog("ss", "num_side_sets"); err != nil {
			return err
		}
	}

	return f.c.CreateVariable("time_whole", []string{"time_step"}, f.floatType)
}

// initCatalog creates the name, status and property arrays for an entity
// catalog. The status and property contents are serialized from the slot
// tracker at Close.
func (f *File) initCatalog(prefix, dim string) error {
	if err := f.c.CreateVariable(prefix+"_names", []string{dim, "len_name"}, container.Char); err != nil {
		return err
	}
	if err := f.c.CreateVariable(prefix+"_status", []string{dim}, container.Int32); err != nil {
		return err
	}
	if err := f.c.CreateVariable(prefix+"_prop1", []string{dim}, container.Int32); err != nil {
		return err
	}
	return f.c.SetVarAttr(prefix+"_prop1", "name", "ID")
}

// flushCatalog writes a tracker's claim state into the catalog's on-disk
// status and property arrays: 1 at claimed slots, the external id at claimed
// property entries, the unassigned sentinel elsewhere.
func (f *File) flushCatalog(prefix string, tr *slots.Tracker) error {
	if tr.Capacity() == 0 {
		return nil
	}
	if err := f.c.PutSlice(prefix+"_status", 0, tr.StatusRow()); err != nil {
		return err
	}
	return f.c.PutSlice(prefix+"_prop1", 0, tr.PropertyRow(unassignedID))
}

// coordNames returns the coordinate variable names present for the given
// dimensionality.
func coordNames(numDims int) []string {
	all := []string{"coordx", "coordy", "coordz"}
	return all[:numDims]
}

// Path returns the file path.
func (f *File) Path() string {
	return f.c.Path()
}

// Close flushes the entity catalogs, serializes and closes the file. Close
// is idempotent: a second call returns nil. A failed close may leave a
// partial file behind.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if err := f.flushCatalog("eb", f.blocks); err != nil {
		f.c.Close()
		return err
	}
	if err := f.flushCatalog("ss", f.sideSets); err != nil {
		f.c.Close()
		return err
	}

	f.logger.Debug("closing exodus file", "path", f.c.Path())
	return f.c.Close()
}

// PutCoords writes the nodal coordinate arrays. Each present axis must hold
// exactly the file's node count; z is ignored for 2-D files and may be nil.
func (f *File) PutCoords(x, y, z []float64) error {
	if f.closed {
		return ErrClosed
	}
	axes := [][]float64{x, y, z}
	for i, name := range coordNames(f.params.NumDims) {
		if len(axes[i]) != f.params.NumNodes {
			return fmt.Errorf("%w: %s has %d values, want %d", ErrValidation, name, len(axes[i]), f.params.NumNodes)
		}
	}
	for i, name := range coordNames(f.params.NumDims) {
		if err := f.putFloats(name, 0, axes[i]); err != nil {
			return err
		}
	}
	f.logger.Debug("wrote coordinates", "nodes", f.params.NumNodes)
	return nil
}

// PutCoordNames writes the coordinate axis names, one per spatial
// dimension.
func (f *File) PutCoordNames(axes []string) error {
	if f.closed {
		return ErrClosed
	}
	if len(axes) != f.params.NumDims {
		return fmt.Errorf("%w: %d axis names, file has %d dimensions", ErrValidation, len(axes), f.params.NumDims)
	}
	for i, name := range axes {
		if err := f.putName("coor_names", i+1, name); err != nil {
			return err
		}
	}
	return nil
}

// PutInfoRecords writes free-form text records. Each record must be shorter
// than the line limit (81 bytes). Empty input is a no-op; the call may be
// made at most once.
func (f *File) PutInfoRecords(records []string) error {
	if f.closed {
		return ErrClosed
	}
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if len(r) >= lenLine {
			return fmt.Errorf("%w: info record %q is longer than %d characters", ErrValidation, r, lenLine-1)
		}
	}
	if _, ok := f.c.Dimension("num_info"); ok {
		return fmt.Errorf("%w: info records already written", ErrValidation)
	}

	if err := f.c.DefineDimension("num_info", len(records)); err != nil {
		return err
	}
	if err := f.c.CreateVariable("info_records", []string{"num_info", "len_line"}, container.Char); err != nil {
		return err
	}
	for i, r := range records {
		slot, err := names.Encode(r, lenLine)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := f.c.PutSlice("info_records", i*lenLine, slot); err != nil {
			return err
		}
	}
	f.logger.Debug("wrote info records", "count", len(records))
	return nil
}

// PutTime writes the time value for a step. Steps are 1-based and bounded
// by the fixed time-step capacity.
func (f *File) PutTime(step int, value float64) error {
	if f.closed {
		return ErrClosed
	}
	if err := f.checkStep(step); err != nil {
		return err
	}
	return f.putFloats("time_whole", step-1, []float64{value})
}

// checkStep validates a 1-based time step index.
func (f *File) checkStep(step int) error {
	if step < 1 || step > timeStepCapacity {
		return fmt.Errorf("%w: step %d out of range [1, %d]", ErrValidation, step, timeStepCapacity)
	}
	return nil
}

// putFloats writes float64 values into a floating-point variable at the
// given flat element offset, converting to the file's word size.
func (f *File) putFloats(name string, start int, vals []float64) error {
	if f.wordSize == 4 {
		buf := make([]float32, len(vals))
		for i, v := range vals {
			buf[i] = float32(v)
		}
		return f.c.PutSlice(name, start, buf)
	}
	return f.c.PutSlice(name, start, vals)
}

// putName writes a fixed-width name into a name array at the given slot.
func (f *File) putName(varName string, slot int, name string) error {
	enc, err := names.Encode(name, lenName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return f.c.PutSlice(varName, (slot-1)*lenName, enc)
}
