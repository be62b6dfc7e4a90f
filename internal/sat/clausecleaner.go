package sat

// cleanClauses drops root-level-falsified literals from every clause in
// *cs and detaches any clause that turns out to be satisfied, compacting
// the slice in place (spec.md §4.6 ClauseCleaner, grounded on
// Solver/ClauseCleaner.cpp's removeSatisfied/cleanClauses pair). Must only
// be called at decision level 0, after Propagate has reached a fixpoint:
// under that condition a clause can never shrink below two literals here,
// since any clause with a single unknown literal remaining would already
// have been unit-propagated. A shrink to exactly two literals is reachable
// though, and a two-literal long clause is illegal (spec.md §4.1), so it is
// routed through the same size-based conversion strengthenClause uses.
func (s *Solver) cleanClauses(cs *[]*Clause) {
	j := 0
	for _, c := range *cs {
		if c.Simplify(s) {
			c.Remove(s)
			continue
		}
		switch len(c.literals) {
		case 0, 1:
			panic("sat: clause shrank below two literals during level-0 cleaning")
		case 2:
			s.unwatchLong(c, c.literals[0].Opposite())
			s.unwatchLong(c, c.literals[1].Opposite())
			s.addBinary(c.literals[0], c.literals[1], c.isLearnt())
			c.statusMask |= statusRemoved
			continue
		}
		(*cs)[j] = c
		j++
	}
	*cs = (*cs)[:j]
}
