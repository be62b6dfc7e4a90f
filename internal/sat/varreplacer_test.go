package sat

import "testing"

func TestVarReplacer_UnionAndResolve(t *testing.T) {
	r := newVarReplacer()
	for i := 0; i < 4; i++ {
		r.addVar()
	}

	// var1 == var0 (no invert).
	if ok := r.union(0, 1, false); !ok {
		t.Fatalf("union(0,1,false) = false, want true")
	}
	if !r.IsReplaced(1) {
		t.Errorf("IsReplaced(1) = false, want true")
	}
	if got := r.resolveLiteral(PositiveLiteral(1)); got != PositiveLiteral(0) {
		t.Errorf("resolveLiteral(+1) = %s, want %s", got, PositiveLiteral(0))
	}

	// var2 == !var1, which transitively chains to var2 == !var0.
	if ok := r.union(1, 2, true); !ok {
		t.Fatalf("union(1,2,true) = false, want true")
	}
	if got := r.resolveLiteral(PositiveLiteral(2)); got != NegativeLiteral(0) {
		t.Errorf("resolveLiteral(+2) = %s, want %s", got, NegativeLiteral(0))
	}

	// Re-asserting the same equivalence is consistent.
	if ok := r.union(0, 1, false); !ok {
		t.Errorf("re-union(0,1,false) = false, want true (already consistent)")
	}

	// Asserting the opposite polarity of an existing class is a contradiction.
	if ok := r.union(0, 1, true); ok {
		t.Errorf("union(0,1,true) = true, want false (contradicts existing class)")
	}
}

func TestVarReplacer_ExtendModel(t *testing.T) {
	r := newVarReplacer()
	for i := 0; i < 3; i++ {
		r.addVar()
	}
	r.union(0, 1, false) // var1 == var0
	r.union(0, 2, true)  // var2 == !var0

	model := []bool{true, false, false}
	r.extendModel(model)

	if !model[1] {
		t.Errorf("model[1] = false, want true (equal to var0)")
	}
	if model[2] {
		t.Errorf("model[2] = true, want false (opposite of var0)")
	}
}
