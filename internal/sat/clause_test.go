package sat

import "testing"

func TestNewClauseOrBinary_Tautology(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(2)

	c, ok := s.newClauseOrBinary([]Literal{PositiveLiteral(0), NegativeLiteral(0), PositiveLiteral(1)}, false)
	if !ok || c != nil {
		t.Errorf("newClauseOrBinary(tautology) = (%v, %v), want (nil, true)", c, ok)
	}
}

func TestNewClauseOrBinary_UnitEnqueues(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(1)

	c, ok := s.newClauseOrBinary([]Literal{PositiveLiteral(0)}, false)
	if !ok || c != nil {
		t.Fatalf("newClauseOrBinary(unit) = (%v, %v), want (nil, true)", c, ok)
	}
	if s.VarValue(0) != True {
		t.Errorf("VarValue(0) = %s, want True", s.VarValue(0))
	}
}

func TestNewClauseOrBinary_SizeTwoBecomesBinary(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(2)

	c, ok := s.newClauseOrBinary([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	if !ok || c != nil {
		t.Fatalf("newClauseOrBinary(size 2) = (%v, %v), want (nil, true)", c, ok)
	}
	if s.numBins != 1 {
		t.Errorf("numBins = %d, want 1", s.numBins)
	}
}

func TestNewClauseOrBinary_LongClauseWatchesFirstTwo(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(3)

	c, ok := s.newClauseOrBinary([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false)
	if !ok || c == nil {
		t.Fatalf("newClauseOrBinary(size 3) = (%v, %v), want (non-nil, true)", c, ok)
	}
	if len(c.literals) != 3 {
		t.Fatalf("len(literals) = %d, want 3", len(c.literals))
	}

	foundFirst, foundSecond := false, false
	for _, w := range s.watchers[c.literals[0].Opposite()] {
		if w.kind == watchLong && w.clause == c {
			foundFirst = true
		}
	}
	for _, w := range s.watchers[c.literals[1].Opposite()] {
		if w.kind == watchLong && w.clause == c {
			foundSecond = true
		}
	}
	if !foundFirst || !foundSecond {
		t.Errorf("clause not watched on both literals[0] and literals[1]: first=%v second=%v", foundFirst, foundSecond)
	}
}

func TestClause_SimplifyDropsFalseLiterals(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(3)

	c, ok := s.newClauseOrBinary([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false)
	if !ok || c == nil {
		t.Fatalf("setup: newClauseOrBinary failed")
	}

	if !s.enqueue(NegativeLiteral(2), antecedent{}) {
		t.Fatalf("setup: enqueue failed")
	}
	if conf := s.Propagate(); conf != nil {
		t.Fatalf("setup: unexpected conflict")
	}

	if sat := c.Simplify(s); sat {
		t.Errorf("Simplify() = true, want false (clause not satisfied)")
	}
	if len(c.literals) != 2 {
		t.Errorf("len(literals) after Simplify = %d, want 2", len(c.literals))
	}
	for _, l := range c.literals {
		if l.VarID() == 2 {
			t.Errorf("literals still contains the falsified variable: %v", c.literals)
		}
	}
}
