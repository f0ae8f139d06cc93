package exodus

import (
	"errors"
	"strings"
	"testing"
)

func TestGlobalVariableNames(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 4, NumElems: 1, NumBlocks: 1})
	if err := f.SetGlobalVariableCount(2); err != nil {
		t.Fatalf("SetGlobalVariableCount failed: %v", err)
	}
	if err := f.PutGlobalVariableName("stress", 1); err != nil {
		t.Fatalf("PutGlobalVariableName failed: %v", err)
	}
	if err := f.PutGlobalVariableName("strain", 2); err != nil {
		t.Fatalf("PutGlobalVariableName failed: %v", err)
	}

	got, err := f.GlobalVariableNames()
	if err != nil {
		t.Fatalf("GlobalVariableNames failed: %v", err)
	}
	if len(got) != 2 || got[0] != "stress" || got[1] != "strain" {
		t.Errorf("names = %v, want [stress strain]", got)
	}
}

func TestVariableNameRoundTrip(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 4, NumElems: 1, NumBlocks: 1})
	if err := f.SetGlobalVariableCount(3); err != nil {
		t.Fatalf("SetGlobalVariableCount failed: %v", err)
	}

	// A name of exactly the storage width survives unmodified; one byte
	// more is rejected rather than truncated.
	exact := strings.Repeat("n", 33)
	if err := f.PutGlobalVariableName(exact, 1); err != nil {
		t.Fatalf("exact-width name rejected: %v", err)
	}
	if err := f.PutGlobalVariableName(exact+"x", 2); !errors.Is(err, ErrValidation) {
		t.Errorf("over-width name: err = %v, want ErrValidation", err)
	}
	if err := f.PutGlobalVariableName("short", 3); err != nil {
		t.Fatalf("PutGlobalVariableName failed: %v", err)
	}

	got, err := f.GlobalVariableNames()
	if err != nil {
		t.Fatalf("GlobalVariableNames failed: %v", err)
	}
	if got[0] != exact {
		t.Errorf("names[0] = %q (len %d), want exact-width name", got[0], len(got[0]))
	}
	if got[1] != "" {
		t.Errorf("names[1] = %q, want empty (never written)", got[1])
	}
	if got[2] != "short" {
		t.Errorf("names[2] = %q, want %q", got[2], "short")
	}
}

func TestVariableNameValidation(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 4, NumElems: 1, NumBlocks: 1})

	// Catalog not declared yet.
	if err := f.PutGlobalVariableName("x", 1); !errors.Is(err, ErrValidation) {
		t.Errorf("undeclared catalog: err = %v, want ErrValidation", err)
	}
	if err := f.SetGlobalVariableCount(1); err != nil {
		t.Fatalf("SetGlobalVariableCount failed: %v", err)
	}
	if err := f.PutGlobalVariableName("x", 0); !errors.Is(err, ErrValidation) {
		t.Errorf("index 0: err = %v, want ErrValidation", err)
	}
	if err := f.PutGlobalVariableName("x", 2); !errors.Is(err, ErrValidation) {
		t.Errorf("index past count: err = %v, want ErrValidation", err)
	}
	// Declaring twice is rejected.
	if err := f.SetGlobalVariableCount(2); !errors.Is(err, ErrValidation) {
		t.Errorf("second declare: err = %v, want ErrValidation", err)
	}
}

func TestZeroVariableCountIsNoop(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 4, NumElems: 1, NumBlocks: 1})
	if err := f.SetGlobalVariableCount(0); err != nil {
		t.Errorf("SetGlobalVariableCount(0) = %v, want nil", err)
	}
	names, err := f.GlobalVariableNames()
	if err != nil || names != nil {
		t.Errorf("names = %v, %v; want nil, nil", names, err)
	}
}

func TestPutGlobalVariableValue(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 4, NumElems: 1, NumBlocks: 1})
	if err := f.SetGlobalVariableCount(2); err != nil {
		t.Fatalf("SetGlobalVariableCount failed: %v", err)
	}
	if err := f.PutGlobalVariableName("stress", 1); err != nil {
		t.Fatalf("PutGlobalVariableName failed: %v", err)
	}
	if err := f.PutGlobalVariableName("strain", 2); err != nil {
		t.Fatalf("PutGlobalVariableName failed: %v", err)
	}

	if err := f.PutGlobalVariableValue("missing", 1, 1.0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown name: err = %v, want ErrNotFound", err)
	}
	if err := f.PutGlobalVariableValue("stress", 0, 1.0); !errors.Is(err, ErrValidation) {
		t.Errorf("step 0: err = %v, want ErrValidation", err)
	}
	if err := f.PutGlobalVariableValue("stress", 2, 1.0); !errors.Is(err, ErrValidation) {
		t.Errorf("step past capacity: err = %v, want ErrValidation", err)
	}
	if err := f.PutGlobalVariableValue("stress", 1, 1.5); err != nil {
		t.Fatalf("PutGlobalVariableValue failed: %v", err)
	}
	if err := f.PutGlobalVariableValue("strain", 1, -2.5); err != nil {
		t.Fatalf("PutGlobalVariableValue failed: %v", err)
	}

	img := decodeFile(t, f)
	v, _ := img.Var("vals_glo_var")
	got := v.Data.([]float64)
	if got[0] != 1.5 || got[1] != -2.5 {
		t.Errorf("vals_glo_var = %v, want [1.5 -2.5]", got)
	}
}

func TestPutNodeVariableValues(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 3, NumElems: 1, NumBlocks: 1})
	if err := f.SetNodeVariableCount(2); err != nil {
		t.Fatalf("SetNodeVariableCount failed: %v", err)
	}
	if err := f.PutNodeVariableName("displacement", 1); err != nil {
		t.Fatalf("PutNodeVariableName failed: %v", err)
	}
	if err := f.PutNodeVariableName("velocity", 2); err != nil {
		t.Fatalf("PutNodeVariableName failed: %v", err)
	}

	if err := f.PutNodeVariableValues("velocity", 1, []float64{1, 2}); !errors.Is(err, ErrValidation) {
		t.Errorf("short values: err = %v, want ErrValidation", err)
	}
	if err := f.PutNodeVariableValues("velocity", 1, []float64{1, 2, 3}); err != nil {
		t.Fatalf("PutNodeVariableValues failed: %v", err)
	}

	img := decodeFile(t, f)
	// Value arrays exist for every declared node variable from declaration.
	if _, ok := img.Var("vals_nod_var1"); !ok {
		t.Error("vals_nod_var1 missing")
	}
	v, ok := img.Var("vals_nod_var2")
	if !ok {
		t.Fatal("vals_nod_var2 missing")
	}
	got := v.Data.([]float64)
	for i, want := range []float64{1, 2, 3} {
		if got[i] != want {
			t.Errorf("vals_nod_var2[%d] = %v, want %v", i, got[i], want)
		}
	}
}

func TestPutElementVariableValues(t *testing.T) {
	f := createTestFile(t, CreateParams{NumDims: 3, NumNodes: 8, NumElems: 2, NumBlocks: 1})
	if err := f.PutElemBlockInfo(100, "TETRA", 2, 4, 0); err != nil {
		t.Fatalf("PutElemBlockInfo failed: %v", err)
	}
	if err := f.SetElementVariableCount(2); err != nil {
		t.Fatalf("SetElementVariableCount failed: %v", err)
	}
	if err := f.PutElementVariableName("energy", 1); err != nil {
		t.Fatalf("PutElementVariableName failed: %v", err)
	}
	if err := f.PutElementVariableName("density", 2); err != nil {
		t.Fatalf("PutElementVariableName failed: %v", err)
	}

	// Declaration creates no value arrays for element variables.
	if f.c.HasVariable("vals_elem_var1eb100") {
		t.Error("element value array exists before first write")
	}

	if err := f.PutElementVariableValues(999, "energy", 1, []float64{1, 2}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown block: err = %v, want ErrNotFound", err)
	}
	if err := f.PutElementVariableValues(100, "missing", 1, []float64{1, 2}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown variable: err = %v, want ErrNotFound", err)
	}
	if err := f.PutElementVariableValues(100, "density", 1, []float64{1}); !errors.Is(err, ErrValidation) {
		t.Errorf("short values: err = %v, want ErrValidation", err)
	}

	if err := f.PutElementVariableValues(100, "density", 1, []float64{0.5, 0.25}); err != nil {
		t.Fatalf("PutElementVariableValues failed: %v", err)
	}
	// Second write to the same pair reuses the array.
	if err := f.PutElementVariableValues(100, "density", 1, []float64{0.75, 0.5}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	img := decodeFile(t, f)
	if _, ok := img.Var("vals_elem_var1eb100"); ok {
		t.Error("vals_elem_var1eb100 exists but was never written")
	}
	v, ok := img.Var("vals_elem_var2eb100")
	if !ok {
		t.Fatal("vals_elem_var2eb100 missing")
	}
	got := v.Data.([]float64)
	if got[0] != 0.75 || got[1] != 0.5 {
		t.Errorf("vals_elem_var2eb100 = %v, want [0.75 0.5]", got)
	}
}
