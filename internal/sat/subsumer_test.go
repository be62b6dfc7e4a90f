package sat

import "testing"

// TestRunSubsumer_RemovesSubsumedClause checks Phase A: a clause subsumed by
// a shorter one is dropped (spec's "Subsumer monotonicity": clause count
// must not increase).
func TestRunSubsumer_RemovesSubsumedClause(t *testing.T) {
	s := newTestSolver()
	s.config.EnableElim = false
	s.AddVariables(4)

	// Binary clauses never enter the occurrence-list-based subsumption (they
	// are handled through the permanent watch lists instead), so both
	// clauses here must be long (>= 3 literals) to exercise the pass.
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2), PositiveLiteral(3)})

	before := len(s.constraints)
	s.RunSubsumer(1_000_000)
	after := len(s.constraints)

	if after >= before {
		t.Errorf("constraint count did not decrease: before=%d after=%d", before, after)
	}
	for _, c := range s.constraints {
		if len(c.literals) == 4 {
			t.Errorf("subsumed clause %s should have been removed", c)
		}
	}
}

// TestRunSubsumer_SelfSubsumingResolutionStrengthens checks Phase B: a
// literal provably redundant via resolution against another clause is
// dropped, shrinking the clause.
func TestRunSubsumer_SelfSubsumingResolutionStrengthens(t *testing.T) {
	s := newTestSolver()
	s.config.EnableElim = false
	s.AddVariables(3)

	// C = (0 v 1 v 2), D = (0 v !1 v 2) -- D equals (C \ {1}) U {!1} exactly,
	// so literal 1 is redundant in C and self-subsuming resolution drops it.
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})
	s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1), PositiveLiteral(2)})

	longBefore := len(s.constraints)
	binsBefore := s.numBins

	s.RunSubsumer(1_000_000)

	// One of the two clauses loses its variable-1 literal and shrinks to the
	// binary (0 v 2); exactly one long clause survives (the other one,
	// unchanged, since its only match -- the now-binary clause -- is no
	// longer a valid resolution partner).
	if got := len(s.constraints); got != longBefore-1 {
		t.Errorf("long clause count = %d, want %d", got, longBefore-1)
	}
	if s.numBins != binsBefore+1 {
		t.Errorf("numBins = %d, want %d", s.numBins, binsBefore+1)
	}
	for _, c := range s.constraints {
		if c.isRemoved() {
			t.Errorf("constraints still references a removed clause: %s", c)
		}
	}
}

// TestRunSubsumer_EliminationPreservesSatisfiability is the spec's
// "Elimination preserves semantics" end-to-end scenario, exercised through
// Solve, which runs the Subsumer as part of inprocessing.
func TestRunSubsumer_EliminationPreservesSatisfiability(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(3)

	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)})
	s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)})
	s.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(2)})

	if got := s.Solve(); got != True {
		t.Fatalf("Solve() = %s, want True", got)
	}
	if s.replacer.NumReplacedVars() < 0 { // sanity: field is readable
		t.Fatal("unreachable")
	}
	if !s.elimLog.IsEliminated(0) {
		t.Skip("variable 0 was not eliminated in this run; nothing further to check")
	}

	model := s.Models[len(s.Models)-1]
	if !model[0] {
		t.Errorf("model[0] = false, want true")
	}
	if !model[2] {
		t.Errorf("model[2] = false, want true")
	}
}
