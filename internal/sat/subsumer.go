package sat

import "sort"

// eliminationLog records, for every variable eliminated by bounded variable
// elimination, the original clauses that mentioned it, so a satisfying
// value can be reconstructed during model extension (spec.md §4.11,
// grounded on Solver/Subsumer.cpp's elimination bookkeeping).
type eliminationLog struct {
	eliminated []bool
	clauses    map[int][][]Literal
	order      []int // elimination order, for reverse replay
}

func newEliminationLog() *eliminationLog {
	return &eliminationLog{clauses: map[int][][]Literal{}}
}

func (e *eliminationLog) addVar() {
	e.eliminated = append(e.eliminated, false)
}

func (e *eliminationLog) record(v int, originals [][]Literal) {
	e.eliminated[v] = true
	e.clauses[v] = originals
	e.order = append(e.order, v)
}

// IsEliminated reports whether v was removed from the problem by bounded
// variable elimination.
func (e *eliminationLog) IsEliminated(v int) bool {
	return e.eliminated[v]
}

// reconstruct assigns every eliminated variable in model a value satisfying
// all of its logged original clauses, replaying eliminations in reverse
// order (spec.md §4.11: "replay its elimination log in reverse").
func (e *eliminationLog) reconstruct(model []bool) {
	for i := len(e.order) - 1; i >= 0; i-- {
		v := e.order[i]
		cs := e.clauses[v]
		model[v] = true
		if !allClausesSatisfied(cs, model) {
			model[v] = false
		}
	}
}

func allClausesSatisfied(cs [][]Literal, model []bool) bool {
	for _, lits := range cs {
		satisfied := false
		for _, l := range lits {
			val := model[l.VarID()]
			if !l.IsPositive() {
				val = !val
			}
			if val {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// occurrenceList is a per-literal list of clauses mentioning that literal,
// built on demand and discarded after a subsumer pass (spec.md §3
// "Occurrence lists (Subsumer-only)"). It excludes binary clauses, which
// are handled through the permanent watch lists instead.
type occurrenceList [][]*Clause

func (s *Solver) buildOccurrenceLists() occurrenceList {
	occ := make(occurrenceList, len(s.assigns))
	add := func(cs []*Clause) {
		for _, c := range cs {
			for _, l := range c.literals {
				occ[l] = append(occ[l], c)
			}
		}
	}
	add(s.constraints)
	add(s.learnts)
	return occ
}

// subsumes reports whether c's literal set is a subset of d's, assuming
// len(c.literals) <= len(d.literals) and the caller has already ruled out
// c == d with an explicit identity check.
func subsumes(c, d *Clause) bool {
	if len(c.literals) > len(d.literals) {
		return false
	}
	for _, l := range c.literals {
		found := false
		for _, m := range d.literals {
			if l == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// leastFrequentLiteral returns the literal of c with the shortest
// occurrence list, the standard pivot choice to minimize subsumption scan
// cost (spec.md §4.8 Phase A).
func leastFrequentLiteral(c *Clause, occ occurrenceList) Literal {
	best := c.literals[0]
	for _, l := range c.literals[1:] {
		if len(occ[l]) < len(occ[best]) {
			best = l
		}
	}
	return best
}

// RunSubsumer performs one fixed-point pass of subsumption, self-subsuming
// resolution, and (if enabled) bounded variable elimination over the
// non-binary clause database (spec.md §4.8). Must be called at decision
// level 0 with the clause set freshly cleaned; budget is a bogoprops
// ceiling for the whole pass.
func (s *Solver) RunSubsumer(budget int64) {
	start := s.bogoprops

	for {
		changed := false
		occ := s.buildOccurrenceLists()

		if s.subsumePass(occ, start, budget) {
			changed = true
		}
		occ = s.buildOccurrenceLists()
		if s.selfSubsumePass(occ, start, budget) {
			changed = true
		}

		s.compactRemoved()

		if s.bogoprops-start > budget {
			break
		}
		if !changed {
			break
		}
	}

	if s.config.EnableElim && s.bogoprops-start <= budget {
		s.eliminatePass(start, budget)
		s.compactRemoved()
	}
}

// subsumePass removes every clause subsumed by another (Phase A), promoting
// a learnt subsumer to non-learnt when it subsumes a non-learnt clause.
func (s *Solver) subsumePass(occ occurrenceList, start, budget int64) bool {
	changed := false
	for _, c := range s.constraints {
		if c.isRemoved() {
			continue
		}
		changed = s.trySubsumeWith(c, occ, start, budget) || changed
	}
	for _, c := range s.learnts {
		if c.isRemoved() {
			continue
		}
		changed = s.trySubsumeWith(c, occ, start, budget) || changed
	}
	return changed
}

func (s *Solver) trySubsumeWith(c *Clause, occ occurrenceList, start, budget int64) bool {
	if s.bogoprops-start > budget {
		return false
	}
	pivot := leastFrequentLiteral(c, occ)
	changed := false
	for _, d := range occ[pivot] {
		s.bogoprops++
		if d == c || d.isRemoved() {
			continue
		}
		if len(d.literals) < len(c.literals) {
			continue
		}
		if c.abstraction&^d.abstraction != 0 {
			continue
		}
		if !subsumes(c, d) {
			continue
		}
		if !c.isLearnt() && d.isLearnt() {
			d.setLearnt(false)
		}
		d.Remove(s)
		changed = true
	}
	return changed
}

// selfSubsumePass strengthens clauses via self-subsuming resolution (Phase
// B): if C contains ℓ and another clause D = (C\{ℓ}) ∪ {¬ℓ} exists with
// |D| ≤ |C|, ℓ is redundant in C and is dropped.
func (s *Solver) selfSubsumePass(occ occurrenceList, start, budget int64) bool {
	changed := false
	check := func(c *Clause) {
		if c.isRemoved() || s.bogoprops-start > budget {
			return
		}
		for _, l := range append([]Literal(nil), c.literals...) {
			opp := l.Opposite()
			for _, d := range occ[opp] {
				s.bogoprops++
				if d == c || d.isRemoved() || len(d.literals) > len(c.literals) {
					continue
				}
				if !resolventMatches(c, d, l, opp) {
					continue
				}
				s.strengthenClause(c, l)
				changed = true
				break
			}
		}
	}
	for _, c := range s.constraints {
		check(c)
	}
	for _, c := range s.learnts {
		check(c)
	}
	return changed
}

// resolventMatches reports whether d equals (c \ {l}) ∪ {opp}, i.e. every
// literal of d other than opp is present in c, and every literal of c other
// than l is present in d.
func resolventMatches(c, d *Clause, l, opp Literal) bool {
	for _, m := range d.literals {
		if m == opp {
			continue
		}
		found := false
		for _, q := range c.literals {
			if q == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, q := range c.literals {
		if q == l {
			continue
		}
		found := false
		for _, m := range d.literals {
			if m == q {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// strengthenClause removes literal l from c, detaching and reattaching
// watches if l was one of the two watched positions, and routes the
// shrunk clause through the same size-based conversions as
// newClauseOrBinary (spec.md §4.1: a two-literal long clause is illegal).
func (s *Solver) strengthenClause(c *Clause, l Literal) {
	watched := c.literals[0] == l || c.literals[1] == l
	if watched {
		s.unwatchLong(c, c.literals[0].Opposite())
		s.unwatchLong(c, c.literals[1].Opposite())
	}

	j := 0
	for _, m := range c.literals {
		if m == l {
			continue
		}
		c.literals[j] = m
		j++
	}
	c.literals = c.literals[:j]
	c.computeAbstraction()
	s.emitDeletion(append(c.literals, l))
	s.emitAddition(c.literals)

	switch len(c.literals) {
	case 0:
		s.unsat = true
	case 1:
		s.enqueue(c.literals[0], antecedent{})
		c.statusMask |= statusRemoved
	case 2:
		s.addBinary(c.literals[0], c.literals[1], c.isLearnt())
		c.statusMask |= statusRemoved
	default:
		if watched {
			s.watchLong(c, c.literals[0].Opposite(), c.literals[1])
			s.watchLong(c, c.literals[1].Opposite(), c.literals[0])
		}
	}
}

// compactRemoved drops every removed clause from s.constraints/s.learnts.
func (s *Solver) compactRemoved() {
	filter := func(cs []*Clause) []*Clause {
		j := 0
		for _, c := range cs {
			if c.isRemoved() {
				continue
			}
			cs[j] = c
			j++
		}
		return cs[:j]
	}
	s.constraints = filter(s.constraints)
	s.learnts = filter(s.learnts)
}

// eliminatePass performs bounded variable elimination (Phase C): for each
// candidate variable v with a small product of positive/negative
// occurrence counts, if resolving every clause containing v against every
// clause containing ¬v yields no more (non-tautological) resolvents than
// the originals, v is eliminated and the originals are logged for model
// extension. Only long clauses take part in the resolution, so a variable
// that still occurs in a binary clause or in a live XOR clause is not a
// candidate and is never eliminated.
func (s *Solver) eliminatePass(start, budget int64) {
	const maxOccurrenceProduct = 100

	for v := 0; v < s.NumVariables(); v++ {
		if s.bogoprops-start > budget {
			return
		}
		if s.VarValue(v) != Unknown || s.replacer.IsReplaced(v) || s.elimLog.IsEliminated(v) {
			continue
		}
		inOther := false
		for _, l := range [2]Literal{PositiveLiteral(v), NegativeLiteral(v)} {
			for _, w := range s.watchers[l] {
				inOther = inOther || w.kind == watchBinary
			}
		}
		for _, x := range s.xorClauses {
			for _, xv := range x.vars {
				inOther = inOther || (!x.removed && xv == v)
			}
		}
		if inOther {
			continue
		}

		occ := s.buildOccurrenceLists()
		pos := occ[PositiveLiteral(v)]
		neg := occ[NegativeLiteral(v)]
		s.bogoprops += int64(len(pos) + len(neg))

		if len(pos) == 0 || len(neg) == 0 {
			continue
		}
		if len(pos)*len(neg) > maxOccurrenceProduct {
			continue
		}

		resolvents, ok := resolveOnVar(v, pos, neg)
		if !ok || len(resolvents) > len(pos)+len(neg) {
			continue
		}

		originals := make([][]Literal, 0, len(pos)+len(neg))
		for _, c := range pos {
			originals = append(originals, append([]Literal(nil), c.literals...))
		}
		for _, c := range neg {
			originals = append(originals, append([]Literal(nil), c.literals...))
		}

		for _, c := range pos {
			c.Remove(s)
		}
		for _, c := range neg {
			c.Remove(s)
		}
		s.compactRemoved()

		for _, lits := range resolvents {
			tmp := append([]Literal(nil), lits...)
			c, ok := s.newClauseOrBinary(tmp, false)
			if c != nil {
				s.constraints = append(s.constraints, c)
				s.emitAddition(c.literals)
			}
			if !ok {
				s.unsat = true
				return
			}
		}

		s.elimLog.record(v, originals)
		s.order.SetDecisionCandidate(v, false)
	}
}

// resolveOnVar computes every non-tautological resolvent of the clauses in
// pos (all containing v positively) against those in neg (all containing v
// negatively), returning false if any clause pair fails to resolve within
// budget-free bounds (never happens here; kept for symmetry with the other
// inprocessing passes' (result, ok) shape).
func resolveOnVar(v int, pos, neg []*Clause) ([][]Literal, bool) {
	var resolvents [][]Literal
	for _, c := range pos {
		for _, d := range neg {
			lits, tautology := resolve(c.literals, d.literals, v)
			if tautology {
				continue
			}
			resolvents = append(resolvents, lits)
		}
	}
	return resolvents, true
}

// resolve returns the resolvent of c and d on variable v (the union of
// their literals other than v's own, deduplicated), and whether it is a
// tautology (contains both p and ¬p for some other variable).
func resolve(c, d []Literal, v int) ([]Literal, bool) {
	seen := map[Literal]bool{}
	var out []Literal
	add := func(l Literal) bool {
		if l.VarID() == v {
			return true
		}
		if seen[l.Opposite()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
		return true
	}
	for _, l := range c {
		if !add(l) {
			return nil, true
		}
	}
	for _, l := range d {
		if !add(l) {
			return nil, true
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, false
}
