package exodus

import (
	"fmt"

	"github.com/robert-malhotra/go-exodus/internal/container"
	"github.com/robert-malhotra/go-exodus/internal/names"
)

// SetGlobalVariableCount declares the global variable catalog. The count is
// fixed once declared; a zero count is a no-op. Name storage and the shared
// value array (one row per time step) are created immediately.
func (f *File) SetGlobalVariableCount(n int) error {
	if f.closed {
		return ErrClosed
	}
	if n == 0 {
		return nil
	}
	if err := f.declareCatalog("glo", &f.numGlobalVars, n); err != nil {
		return err
	}
	return f.c.CreateVariable("vals_glo_var", []string{"time_step", "num_glo_var"}, f.floatType)
}

// SetElementVariableCount declares the element variable catalog. Only name
// storage is created; value arrays are created per (variable, block) pair on
// first write.
func (f *File) SetElementVariableCount(n int) error {
	if f.closed {
		return ErrClosed
	}
	if n == 0 {
		return nil
	}
	return f.declareCatalog("elem", &f.numElemVars, n)
}

// SetNodeVariableCount declares the node variable catalog, creating name
// storage and one value array per variable spanning all nodes and steps.
func (f *File) SetNodeVariableCount(n int) error {
	if f.closed {
		return ErrClosed
	}
	if n == 0 {
		return nil
	}
	if err := f.declareCatalog("nod", &f.numNodeVars, n); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("vals_nod_var%d", i)
		if err := f.c.CreateVariable(name, []string{"time_step", "num_nodes"}, f.floatType); err != nil {
			return err
		}
	}
	return nil
}

// declareCatalog creates a catalog's count dimension and fixed-width name
// array.
func (f *File) declareCatalog(kind string, count *int, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative variable count %d", ErrValidation, n)
	}
	if *count != 0 {
		return fmt.Errorf("%w: %s variable count already declared", ErrValidation, kind)
	}
	dim := fmt.Sprintf("num_%s_var", kind)
	if err := f.c.DefineDimension(dim, n); err != nil {
		return err
	}
	if err := f.c.CreateVariable("name_"+kind+"_var", []string{dim, "len_name"}, container.Char); err != nil {
		return err
	}
	*count = n
	f.logger.Debug("declared variable catalog", "kind", kind, "count", n)
	return nil
}

// PutGlobalVariableName names the global variable at a 1-based index.
func (f *File) PutGlobalVariableName(name string, index int) error {
	return f.putVarName("glo", f.numGlobalVars, name, index)
}

// PutElementVariableName names the element variable at a 1-based index.
func (f *File) PutElementVariableName(name string, index int) error {
	return f.putVarName("elem", f.numElemVars, name, index)
}

// PutNodeVariableName names the node variable at a 1-based index.
func (f *File) PutNodeVariableName(name string, index int) error {
	return f.putVarName("nod", f.numNodeVars, name, index)
}

func (f *File) putVarName(kind string, count int, name string, index int) error {
	if f.closed {
		return ErrClosed
	}
	if count == 0 {
		return fmt.Errorf("%w: %s variable count not declared", ErrValidation, kind)
	}
	if index < 1 || index > count {
		return fmt.Errorf("%w: index %d out of range [1, %d]", ErrValidation, index, count)
	}
	return f.putName("name_"+kind+"_var", index, name)
}

// GlobalVariableNames returns the global variable names in slot order.
// Unnamed slots decode as empty strings.
func (f *File) GlobalVariableNames() ([]string, error) {
	return f.varNames("glo", f.numGlobalVars)
}

// ElementVariableNames returns the element variable names in slot order.
func (f *File) ElementVariableNames() ([]string, error) {
	return f.varNames("elem", f.numElemVars)
}

// NodeVariableNames returns the node variable names in slot order.
func (f *File) NodeVariableNames() ([]string, error) {
	return f.varNames("nod", f.numNodeVars)
}

func (f *File) varNames(kind string, count int) ([]string, error) {
	if count == 0 {
		return nil, nil
	}
	raw, err := f.c.Values("name_" + kind + "_var")
	if err != nil {
		return nil, err
	}
	return names.DecodeAll(raw.([]byte), lenName), nil
}

// resolveVar returns the 1-based slot of the first catalog entry whose name
// matches exactly.
func (f *File) resolveVar(kind string, count int, name string) (int, error) {
	all, err := f.varNames(kind, count)
	if err != nil {
		return 0, err
	}
	for i, n := range all {
		if n == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s variable %q", ErrNotFound, kind, name)
}

// PutGlobalVariableValue writes one global variable's value at a time step.
// The variable is resolved by name.
func (f *File) PutGlobalVariableValue(name string, step int, value float64) error {
	if f.closed {
		return ErrClosed
	}
	if err := f.checkStep(step); err != nil {
		return err
	}
	idx, err := f.resolveVar("glo", f.numGlobalVars, name)
	if err != nil {
		return err
	}
	offset := (step-1)*f.numGlobalVars + (idx - 1)
	return f.putFloats("vals_glo_var", offset, []float64{value})
}

// PutNodeVariableValues writes a node variable's per-node values at a time
// step. values must hold exactly the file's node count.
func (f *File) PutNodeVariableValues(name string, step int, values []float64) error {
	if f.closed {
		return ErrClosed
	}
	if err := f.checkStep(step); err != nil {
		return err
	}
	idx, err := f.resolveVar("nod", f.numNodeVars, name)
	if err != nil {
		return err
	}
	if len(values) != f.params.NumNodes {
		return fmt.Errorf("%w: %d values, file has %d nodes", ErrValidation, len(values), f.params.NumNodes)
	}
	return f.putFloats(fmt.Sprintf("vals_nod_var%d", idx), (step-1)*f.params.NumNodes, values)
}

// PutElementVariableValues writes an element variable's per-element values
// for one block at a time step. values must hold exactly the block's element
// count. The (variable, block) value array is created on first write.
func (f *File) PutElementVariableValues(blockID int64, name string, step int, values []float64) error {
	if f.closed {
		return ErrClosed
	}
	if err := f.checkStep(step); err != nil {
		return err
	}
	slot, ok := f.blocks.Lookup(blockID)
	if !ok {
		return fmt.Errorf("%w: element block id %d", ErrNotFound, blockID)
	}
	idx, err := f.resolveVar("elem", f.numElemVars, name)
	if err != nil {
		return err
	}
	shape := f.blockShapes[slot]
	if len(values) != shape.numElems {
		return fmt.Errorf("%w: %d values, block %d has %d elements", ErrValidation, len(values), blockID, shape.numElems)
	}

	varName, err := f.elemValArray(idx, blockID, slot)
	if err != nil {
		return err
	}
	return f.putFloats(varName, (step-1)*shape.numElems, values)
}

// elemValArray returns the value array for a (variable index, block id)
// pair, creating it on first use.
func (f *File) elemValArray(varIdx int, blockID int64, slot int) (string, error) {
	key := elemVarKey{varIndex: varIdx, blockID: blockID}
	if name, ok := f.elemVals[key]; ok {
		return name, nil
	}
	name := fmt.Sprintf("vals_elem_var%deb%d", varIdx, blockID)
	dims := []string{"time_step", fmt.Sprintf("num_el_in_blk%d", slot)}
	if err := f.c.CreateVariable(name, dims, f.floatType); err != nil {
		return "", err
	}
	f.elemVals[key] = name
	f.logger.Debug("created element variable array", "variable", varIdx, "block", blockID)
	return name, nil
}
