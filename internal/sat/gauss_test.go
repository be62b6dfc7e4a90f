package sat

import "testing"

func TestPartitionXorClauses_SplitsByConnectivity(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(5)

	x1, ok := s.newXorClauseOrUnit([]int{0, 1}, true)
	if !ok || x1 == nil {
		t.Fatalf("setup: newXorClauseOrUnit(0,1) failed")
	}
	x2, ok := s.newXorClauseOrUnit([]int{1, 2}, false)
	if !ok || x2 == nil {
		t.Fatalf("setup: newXorClauseOrUnit(1,2) failed")
	}
	x3, ok := s.newXorClauseOrUnit([]int{3, 4}, true)
	if !ok || x3 == nil {
		t.Fatalf("setup: newXorClauseOrUnit(3,4) failed")
	}

	comps := s.partitionXorClauses()
	if len(comps) != 2 {
		t.Fatalf("len(comps) = %d, want 2", len(comps))
	}

	var sizes []int
	for _, c := range comps {
		sizes = append(sizes, len(c.clauses))
	}
	// One component holds {x1, x2} (sharing var 1), the other holds {x3} alone.
	two, one := 0, 0
	for _, n := range sizes {
		switch n {
		case 2:
			two++
		case 1:
			one++
		}
	}
	if two != 1 || one != 1 {
		t.Errorf("component sizes = %v, want one of size 2 and one of size 1", sizes)
	}
}

func TestGaussEliminateComponent_DerivesUnitFromTriangularSystem(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(3)

	// var0 XOR var1 = true, var1 XOR var2 = true. Row reduction alone does
	// not pin any single variable: assign var2 externally, without
	// propagating it through the XOR watches, and confirm that elimination
	// over the reduced system then forces var1 and var0.
	if _, ok := s.newXorClauseOrUnit([]int{0, 1}, true); !ok {
		t.Fatalf("setup: xor(0,1,true) failed")
	}
	if _, ok := s.newXorClauseOrUnit([]int{1, 2}, true); !ok {
		t.Fatalf("setup: xor(1,2,true) failed")
	}
	if !s.enqueue(PositiveLiteral(2), antecedent{}) {
		t.Fatalf("setup: enqueue var2 failed")
	}
	if s.VarValue(1) != Unknown {
		t.Fatalf("setup: VarValue(1) = %s, want Unknown before elimination", s.VarValue(1))
	}

	comps := s.partitionXorClauses()
	if len(comps) != 1 {
		t.Fatalf("len(comps) = %d, want 1", len(comps))
	}
	s.gaussEliminateComponent(comps[0])

	if s.unsat {
		t.Fatalf("unsat after elimination, want sat")
	}
	// var2 = true, var1 XOR var2 = true => var1 = false, var0 XOR var1 = true => var0 = true.
	if s.VarValue(1) != False {
		t.Errorf("VarValue(1) = %s, want False", s.VarValue(1))
	}
	if s.VarValue(0) != True {
		t.Errorf("VarValue(0) = %s, want True", s.VarValue(0))
	}
}

func TestGaussEliminateComponent_DetectsConflict(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(2)

	if _, ok := s.newXorClauseOrUnit([]int{0, 1}, true); !ok {
		t.Fatalf("setup: xor(0,1,true) failed")
	}
	if _, ok := s.newXorClauseOrUnit([]int{0, 1}, false); !ok {
		t.Fatalf("setup: xor(0,1,false) failed")
	}

	comps := s.partitionXorClauses()
	if len(comps) != 1 {
		t.Fatalf("len(comps) = %d, want 1", len(comps))
	}
	s.gaussEliminateComponent(comps[0])

	if !s.unsat {
		t.Errorf("unsat = false, want true (0=1 row after reduction)")
	}
}

func TestRunGauss_RespectsEnableGaussFlag(t *testing.T) {
	s := newTestSolver()
	s.config.EnableGauss = false
	s.AddVariables(2)

	if _, ok := s.newXorClauseOrUnit([]int{0, 1}, true); !ok {
		t.Fatalf("setup: xor(0,1,true) failed")
	}
	if _, ok := s.newXorClauseOrUnit([]int{0, 1}, false); !ok {
		t.Fatalf("setup: xor(0,1,false) failed")
	}

	s.RunGauss(1_000_000)

	if s.unsat {
		t.Errorf("unsat = true, want false: RunGauss must no-op when EnableGauss is false")
	}
}
