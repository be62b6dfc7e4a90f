package sat

// probeResult holds the outcome of assuming a single probe literal: the set
// of literals it forces under full propagation, S(ℓ), the (generally
// smaller) subset forced using binary clauses alone, B(ℓ) (spec.md §4.9),
// and any XOR clauses reduced to exactly two unassigned variables under the
// trial (spec.md:136).
type probeResult struct {
	full   []Literal
	binary []Literal
	xors   []reducedXor
}

// reducedXor is the canonical two-variable form (a < b) of an XorClause that
// has shrunk to exactly two unassigned variables under a trial assignment:
// a XOR b must equal rhs for the original clause to hold.
type reducedXor struct {
	a, b int
	rhs  bool
}

// collectReducedXors scans the live XOR clauses and returns the canonical
// form of every one reduced to exactly two unassigned variables under the
// solver's current (partial) assignment.
func (s *Solver) collectReducedXors() []reducedXor {
	var out []reducedXor
	for _, x := range s.xorClauses {
		if x.removed {
			continue
		}
		var unassigned [2]int
		n := 0
		parity := x.rhs
		for _, v := range x.vars {
			switch s.VarValue(v) {
			case Unknown:
				if n < 2 {
					unassigned[n] = v
				}
				n++
			case True:
				parity = !parity
			}
		}
		if n != 2 {
			continue
		}
		a, b := unassigned[0], unassigned[1]
		if a > b {
			a, b = b, a
		}
		out = append(out, reducedXor{a: a, b: b, rhs: parity})
	}
	return out
}

// RunProber performs failed-literal probing with hyper-binary resolution
// (spec.md §4.9), grounded on src/prober.cpp and Solver/FailedVarSearcher.cpp.
// Must be called at decision level 0 with a clean, propagated trail. budget
// is a bogoprops ceiling for the whole pass.
func (s *Solver) RunProber(budget int64) {
	start := s.bogoprops
	for v := 0; v < s.NumVariables(); v++ {
		if s.unsat {
			return
		}
		if s.bogoprops-start > budget {
			return
		}
		if s.VarValue(v) != Unknown || s.replacer.IsReplaced(v) || s.elimLog.IsEliminated(v) {
			continue
		}
		s.probeVar(v)
	}
}

// probeVar tries both polarities of v, per spec.md §4.9's three outcomes.
func (s *Solver) probeVar(v int) {
	pos, okPos := s.tryProbe(PositiveLiteral(v))
	if !okPos {
		s.forceFailedLiteral(NegativeLiteral(v))
		return
	}

	neg, okNeg := s.tryProbe(NegativeLiteral(v))
	if !okNeg {
		s.forceFailedLiteral(PositiveLiteral(v))
		return
	}

	s.applyBothPropagated(pos.full, neg.full)
	if s.unsat {
		return
	}
	s.applyEquivalences(v, pos.full, neg.full)
	if s.unsat {
		return
	}
	s.applyXorEquivalences(pos.xors, neg.xors)
	if s.unsat {
		return
	}
	s.applyHyperBinary(PositiveLiteral(v), pos)
	s.applyHyperBinary(NegativeLiteral(v), neg)
}

// forceFailedLiteral handles the "ℓ is failed" outcome: ¬ℓ must hold
// unconditionally. A second conflict while enqueuing it means the whole
// problem is UNSAT.
func (s *Solver) forceFailedLiteral(forced Literal) {
	s.cancelUntil(0)
	if !s.enqueue(forced, antecedent{}) {
		s.unsat = true
		return
	}
	if conf := s.Propagate(); conf != nil {
		s.unsat = true
	}
}

// tryProbe assumes l at a fresh decision level and reports the literals it
// forces, both under full propagation and under a binary-only sublevel used
// for hyper-binary resolution. Returns ok=false if l conflicts outright
// (i.e. it is a failed literal); the trail is always restored to level 0
// before returning.
func (s *Solver) tryProbe(l Literal) (probeResult, bool) {
	s.assume(l)
	conf := s.Propagate()
	if conf != nil {
		s.cancelUntil(0)
		return probeResult{}, false
	}
	boundary := s.trailLim[len(s.trailLim)-1]
	full := append([]Literal(nil), s.trail[boundary+1:]...)
	xors := s.collectReducedXors()
	s.cancelUntil(0)

	s.assume(l)
	s.binaryOnlyPropagate()
	boundary = s.trailLim[len(s.trailLim)-1]
	bin := append([]Literal(nil), s.trail[boundary+1:]...)
	s.cancelUntil(0)

	return probeResult{full: full, binary: bin, xors: xors}, true
}

// binaryOnlyPropagate drains the propagation queue considering only binary
// watch entries, ignoring long and XOR clauses, to compute the restricted
// implication set B(ℓ) of spec.md §4.9. Since binary implications are a
// subset of full implications, this can never conflict when the caller has
// already established that full propagation from the same state succeeds.
func (s *Solver) binaryOnlyPropagate() bool {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()
		s.bogoprops++
		for _, w := range s.watchers[l] {
			if w.kind != watchBinary {
				continue
			}
			switch s.LitValue(w.other) {
			case True:
				continue
			case Unknown:
				s.enqueue(w.other, binaryAntecedent(l.Opposite(), w.other))
			default:
				s.propQueue.Clear()
				return false
			}
		}
	}
	return true
}

// applyBothPropagated enqueues, at level 0, every literal forced identically
// by both ℓ and ¬ℓ: it must hold regardless of v's value (spec.md §4.9
// "both-propagated").
func (s *Solver) applyBothPropagated(pos, neg []Literal) {
	set := make(map[Literal]bool, len(pos))
	for _, l := range pos {
		set[l] = true
	}
	for _, l := range neg {
		if !set[l] {
			continue
		}
		if !s.enqueue(l, antecedent{}) {
			s.unsat = true
			return
		}
	}
	if conf := s.Propagate(); conf != nil {
		s.unsat = true
	}
}

// applyEquivalences detects variables y forced to opposite polarities under
// ℓ and ¬ℓ (spec.md §4.9: "sign(m in S(ℓ)) ≠ sign(m in S(¬ℓ))"), which means
// y is equivalent to v (or its negation), and records the equivalence via
// the Variable Replacer (spec.md §4.7).
func (s *Solver) applyEquivalences(v int, pos, neg []Literal) {
	posPolarity := make(map[int]bool, len(pos))
	for _, l := range pos {
		posPolarity[l.VarID()] = l.IsPositive()
	}
	for _, l := range neg {
		y := l.VarID()
		if y == v {
			continue
		}
		pp, ok := posPolarity[y]
		np := l.IsPositive()
		if !ok || pp == np {
			continue // not present under both, or both-propagated (handled above)
		}
		if !s.replacer.union(v, y, !pp) {
			s.unsat = true
			return
		}
		s.order.SetDecisionCandidate(y, false)
	}
}

// applyXorEquivalences detects an XOR clause reduced to the same pair of
// variables with the same effective right-hand side under both ℓ and ¬ℓ
// (spec.md:136 "2-lit XOR extraction"): such a reduction no longer depends
// on v, so it holds unconditionally and is recorded as a variable
// equivalence via the Variable Replacer (spec.md §4.7).
func (s *Solver) applyXorEquivalences(pos, neg []reducedXor) {
	seen := make(map[reducedXor]bool, len(pos))
	for _, rx := range pos {
		seen[rx] = true
	}
	for _, rx := range neg {
		if !seen[rx] {
			continue
		}
		if s.VarValue(rx.a) != Unknown || s.VarValue(rx.b) != Unknown {
			continue // settled by an earlier apply* call this round
		}
		if !s.replacer.union(rx.a, rx.b, rx.rhs) {
			s.unsat = true
			return
		}
		s.order.SetDecisionCandidate(rx.b, false)
	}
}

// applyHyperBinary adds a binary clause (¬ℓ ∨ m) for every m implied by ℓ
// under full propagation but not derivable from binary clauses alone
// (spec.md §4.9 hyper-binary resolution): the new binary is logically
// implied and sound to add, and accelerates future propagation.
func (s *Solver) applyHyperBinary(l Literal, res probeResult) {
	if !s.config.HyperBin {
		return
	}
	binSet := make(map[Literal]bool, len(res.binary))
	for _, m := range res.binary {
		binSet[m] = true
	}
	for _, m := range res.full {
		if binSet[m] || m.VarID() == l.VarID() {
			continue
		}
		s.addBinary(l.Opposite(), m, true)
		s.emitAddition([]Literal{l.Opposite(), m})
	}
}
