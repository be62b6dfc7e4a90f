package sat

import "testing"

func TestInprocessingBudget_GrowsWhenProductive(t *testing.T) {
	b := newInprocessingBudget(1000)
	b.adjust(20, 100) // 20% of free vars set, above the 10% threshold

	if b.current != 1500 {
		t.Errorf("current = %d, want 1500 (1.5x growth)", b.current)
	}
}

func TestInprocessingBudget_ShrinksWhenUnproductive(t *testing.T) {
	b := newInprocessingBudget(1000)
	b.adjust(1, 100) // 1% of free vars set, below the 10% threshold

	if b.current != 666 {
		t.Errorf("current = %d, want 666 (2/3 shrink)", b.current)
	}
}

func TestInprocessingBudget_ShrinkFloorsAtQuarterOfBase(t *testing.T) {
	b := newInprocessingBudget(1000)
	b.current = 300 // just above base/4 = 250; the first shrink (to 200) would go below the floor
	for i := 0; i < 5; i++ {
		b.adjust(0, 100)
	}

	if b.current != 250 {
		t.Errorf("current = %d, want 250 (floor at base/4)", b.current)
	}
}

func TestSolve_AssumptionConflictingWithUnitSetsFinalConflict(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(1)
	s.AddClause([]Literal{PositiveLiteral(0)})

	status := s.Solve(NegativeLiteral(0))

	if status != False {
		t.Fatalf("Solve() = %s, want False", status)
	}
	fc := s.FinalConflict()
	if len(fc) != 1 || fc[0] != PositiveLiteral(0) {
		t.Errorf("FinalConflict() = %v, want [%s]", fc, PositiveLiteral(0))
	}
}

func TestSolve_InterruptBeforeSolveReturnsUnknown(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(3)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})

	s.Interrupt()
	status := s.Solve()

	if status != Unknown {
		t.Errorf("Solve() = %s, want Unknown (interrupted before any work)", status)
	}
}

func TestSolve_ConflictLimitZeroReturnsUnknown(t *testing.T) {
	s := newTestSolver()
	s.config.ConflictLimit = 0
	s.AddVariables(3)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})
	s.AddClause([]Literal{NegativeLiteral(0), NegativeLiteral(1), NegativeLiteral(2)})

	status := s.Solve()

	if status != Unknown {
		t.Errorf("Solve() = %s, want Unknown (zero conflict budget)", status)
	}
}
