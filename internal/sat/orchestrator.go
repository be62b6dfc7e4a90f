package sat

import "time"

// valueForModel returns variable i's trail-derived boolean value for model
// construction. For Replaced and Eliminated variables the trail value is
// not authoritative: such a variable is left unassigned, or assigned through
// a clause that still mentions it, so whatever this returns for it is a
// placeholder; saveModel overwrites it immediately afterwards via the
// Variable Replacer and elimination log.
func (s *Solver) valueForModel(i int) bool {
	return s.VarValue(i) == True
}

// inprocessingBudget tracks the adaptive bogoprops ceiling each
// inprocessing pass is allowed per round (spec.md §4.9 "an adaptive
// multiplier grows the budget when recent passes were productive... shrinks
// it otherwise").
type inprocessingBudget struct {
	base    int64
	current int64
}

func newInprocessingBudget(base int64) *inprocessingBudget {
	return &inprocessingBudget{base: base, current: base}
}

// adjust grows or shrinks the budget for the next round depending on
// whether this round's pass set a meaningful fraction of free variables.
func (b *inprocessingBudget) adjust(varsSetThisRound, freeVarsBefore int) {
	const productiveFraction = 0.10
	if freeVarsBefore > 0 && float64(varsSetThisRound)/float64(freeVarsBefore) >= productiveFraction {
		b.current = b.current * 3 / 2
	} else {
		b.current = b.current * 2 / 3
		if b.current < b.base/4 {
			b.current = b.base / 4
		}
	}
}

// inprocess runs one round of the inprocessing suite (ClauseCleaner is
// already applied by Simplify inside search; this covers Subsumer, Prober,
// and the XOR engine/Gauss) at decision level 0, per spec.md §4.2's data
// flow: "(Search until restart/budget) → (optional inprocessing batch) →
// repeat". It is a no-op if the solver is already at a conclusive state.
func (s *Solver) inprocess(budget *inprocessingBudget) {
	if s.unsat || s.decisionLevel() != 0 {
		return
	}

	freeBefore := s.order.NumCandidates() - s.NumAssigns()

	if !s.Simplify() {
		return
	}

	if s.config.EnableProbing {
		s.RunProber(budget.current)
		if s.unsat {
			return
		}
	}

	if s.config.EnableXor {
		s.RunXorEngine(budget.current)
		if s.unsat {
			return
		}
	}

	if s.config.EnableElim {
		s.RunSubsumer(budget.current)
		if s.unsat {
			return
		}
	}

	freeAfter := s.order.NumCandidates() - s.NumAssigns()
	setThisRound := freeBefore - freeAfter
	if setThisRound < 0 {
		setThisRound = 0
	}
	budget.adjust(setThisRound, freeBefore)
}

// Solve attempts to decide the current clause set, treating assumptions as
// temporary decisions pinned at the lowest levels, interleaving Search with
// inprocessing passes at every decision-level-0 pause (spec.md §4.2, §5
// "Orchestrator"). It returns True (SAT, with a model recorded in
// s.Models), False (UNSAT, with a final conflict clause available via
// FinalConflict if assumptions were used), or Unknown if resources were
// exhausted or Interrupt was called.
func (s *Solver) Solve(assumptions ...Literal) LBool {
	return s.solveOrchestrated(assumptions)
}

func (s *Solver) solveOrchestrated(assumptions []Literal) LBool {
	s.assumptions = assumptions
	s.startTime = time.Now()

	numConflicts := int64(100)
	numLearnts := int64(s.NumConstraints())/3 + 1000
	budget := newInprocessingBudget(1_000_000)
	status := Unknown

	if s.config.Verbosity > 0 {
		s.printSeparator()
		s.printSearchHeader()
		s.printSeparator()
	}

	for status == Unknown {
		status = s.search(numConflicts, numLearnts)
		numConflicts += numConflicts / 10
		numLearnts += numLearnts / 20

		if status == Unknown && !s.shouldStop() && s.decisionLevel() == 0 {
			s.inprocess(budget)
			if s.unsat {
				status = False
			}
		}

		if s.shouldStop() {
			break
		}
	}

	if s.config.Verbosity > 0 {
		s.printSearchStats()
		s.printSeparator()
	}

	s.interrupted = false
	s.cancelUntil(0)
	return status
}
