package sat

import "testing"

// TestCleanClauses_ShrinkToTwoBecomesBinary drives a 3-literal clause down
// to 2 literals via a root-level falsified literal and checks that
// cleanClauses converts it to a binary clause instead of leaving it
// attached as an illegal two-literal long clause (spec.md §4.1).
func TestCleanClauses_ShrinkToTwoBecomesBinary(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(3)

	c, ok := s.newClauseOrBinary([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false)
	if !ok || c == nil {
		t.Fatalf("setup: newClauseOrBinary failed")
	}
	before := s.numBins

	if !s.enqueue(NegativeLiteral(2), antecedent{}) {
		t.Fatalf("setup: enqueue failed")
	}

	if !s.Simplify() {
		t.Fatalf("Simplify() = false, want true")
	}

	if len(c.literals) != 2 {
		t.Errorf("len(literals) = %d, want 2", len(c.literals))
	}
	if !c.isRemoved() {
		t.Errorf("clause not marked removed after shrinking to binary")
	}
	if s.numBins != before+1 {
		t.Errorf("numBins = %d, want %d", s.numBins, before+1)
	}
	for _, other := range s.constraints {
		if other == c {
			t.Errorf("shrunk clause still present in s.constraints")
		}
	}
	for _, w := range s.watchers[c.literals[0].Opposite()] {
		if w.kind == watchLong && w.clause == c {
			t.Errorf("shrunk clause still registered as a long-clause watch on literals[0]")
		}
	}
	for _, w := range s.watchers[c.literals[1].Opposite()] {
		if w.kind == watchLong && w.clause == c {
			t.Errorf("shrunk clause still registered as a long-clause watch on literals[1]")
		}
	}
}
