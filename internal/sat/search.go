package sat

import "math"

// search runs Propagate/AnalyzeConflict/Decide (spec.md §4.5) until a
// restart is due, the conflict budget for this round is exceeded, or a
// definite answer is reached. Reaching the learnt-clause budget does not end
// the round; it triggers ReduceDB and the search goes on.
func (s *Solver) search(nConflicts, nLearnts int64) LBool {
	if s.unsat {
		return False
	}

	s.TotalRestarts++
	s.restartLubyRun++
	conflictCount := int64(0)

	for !s.shouldStop() {
		if s.config.Verbosity > 0 && s.TotalIterations%10000 == 0 {
			s.printSearchStats()
		}
		s.TotalIterations++

		if conf := s.Propagate(); conf != nil {
			conflictCount++
			s.TotalConflicts++
			s.conflictsSinceRestart++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learntClause, backtrackLevel, glue := s.analyze(*conf)
			s.glueEMA.Add(float64(glue))
			s.glueEMASlow.Add(float64(glue))

			s.cancelUntil(backtrackLevel)
			s.record(learntClause, glue)

			s.DecayClaActivity()
			s.DecayVarActivity()

			for _, l := range learntClause {
				s.BumpVarActivity(l)
			}

			continue
		}

		// No conflict.

		if s.decisionLevel() == 0 {
			s.Simplify()
			if s.unsat {
				return False
			}
		}

		if s.shouldRestart() {
			s.cancelUntil(0)
			return Unknown
		}

		if int64(len(s.learnts))-int64(s.NumAssigns()) >= nLearnts {
			s.ReduceDB()
		}

		if lit, ok := s.nextAssumption(); ok {
			switch s.LitValue(lit) {
			case True:
				// Already implied; just push a decision level boundary so
				// the next assumption lines up with the right index.
				s.trailLim = append(s.trailLim, len(s.trail))
			case False:
				s.analyzeFinal(lit.Opposite())
				return False
			default:
				s.assume(lit)
			}
			continue
		}

		if s.NumAssigns() == s.order.NumCandidates() {
			s.saveModel()
			s.cancelUntil(0)
			return True
		}

		if conflictCount > nConflicts {
			s.cancelUntil(0)
			return Unknown
		}

		s.TotalDecisions++
		l := s.order.NextDecision(s)
		s.assume(l)
	}

	return Unknown
}

// nextAssumption returns the next not-yet-decided assumption literal, if the
// current decision level is still within the assumption prefix.
func (s *Solver) nextAssumption() (Literal, bool) {
	if s.decisionLevel() >= len(s.assumptions) {
		return 0, false
	}
	return s.assumptions[s.decisionLevel()], true
}

// analyzeFinal computes the final conflict clause (spec.md §6) after an
// assumption was found already false; p is the negation of that assumption,
// i.e. the literal that is true on the trail. The result is p together with
// the negations of the assumptions that explain it. It walks the trail
// backwards from p, following antecedents the same way analyze does, but
// only ever collecting literals assigned above level 0 (i.e. assumption
// decisions), since the rest is implied by the permanent clause set.
func (s *Solver) analyzeFinal(p Literal) {
	out := append(s.finalConflict[:0], p)
	s.seenVar.Clear()
	s.seenVar.Add(p.VarID())

	if s.decisionLevel() == 0 {
		s.finalConflict = out
		return
	}

	for i := len(s.trail) - 1; i >= 0; i-- {
		l := s.trail[i]
		v := l.VarID()
		if !s.seenVar.Contains(v) {
			continue
		}
		if s.reason[v].isNone() {
			if s.level[v] > 0 {
				out = append(out, l.Opposite())
			}
			continue
		}
		for _, q := range s.reason[v].explainAssign(s, l, s.tmpReason[:0]) {
			if s.level[q.VarID()] > 0 {
				s.seenVar.Add(q.VarID())
			}
		}
	}

	s.finalConflict = out
}

// FinalConflict returns the clause over the negation of a subset of
// assumptions that caused the last UNSAT Solve call with assumptions to
// fail, per spec.md §6.
func (s *Solver) FinalConflict() []Literal {
	return s.finalConflict
}

// shouldRestart reports whether the current run has met its restart trigger
// (spec.md §4.5): a static Luby sequence, or the glue EMA exceeding its
// slow-moving baseline.
func (s *Solver) shouldRestart() bool {
	switch s.config.RestartType {
	case RestartStatic:
		limit := int64(100 * luby(2, s.restartLubyRun))
		if s.conflictsSinceRestart < limit {
			return false
		}
	default: // RestartDynamic
		const minConflictsBeforeRestart = 50
		if s.conflictsSinceRestart < minConflictsBeforeRestart {
			return false
		}
		if s.glueEMA.Val() <= 1.25*s.glueEMASlow.Val() {
			return false
		}
	}
	s.conflictsSinceRestart = 0
	return true
}

// luby returns the y^seq term of the Luby restart sequence at index x, the
// standard "1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ..." schedule scaled by y.
func luby(y float64, x int64) float64 {
	size, seq := int64(1), int64(0)
	for size < x+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != x {
		size = (size - 1) / 2
		seq--
		x = x % size
	}
	return math.Pow(y, float64(seq))
}
