package sat

import "strings"

// status holds boolean flags about a long clause, packed into a single byte
// the same way the teacher's clause record does.
type status uint8

const (
	statusLearnt status = 1 << iota
	statusProtected
	statusXor
	statusRemoved
)

// Clause is a heap-allocated long clause (three or more literals; shorter
// clauses are either unit facts enqueued directly or binary clauses stored
// inline in the watch lists, see watch.go). It corresponds to the "Long
// clause" record of the data model: literals[0] and literals[1] are always
// its two watched positions.
type Clause struct {
	id       int64
	activity float64

	// literals always has length >= 3 for an attached clause.
	literals []Literal

	// prevPos speeds up the search for a new literal to watch by resuming
	// from the position at which the previous watch was swapped in. It must
	// always lie in [2, len(literals)-1] when valid.
	prevPos int

	// lbd is the glue / literal-block-distance computed at learning time.
	lbd uint32

	// abstraction is a 32-bit Bloom-style fingerprint of the clause's
	// variables (bit v%32 set for every variable v present), used by the
	// Subsumer to cheaply rule out subsumption candidates.
	abstraction uint32

	statusMask status

	// sliceRef points at the pool-owned backing array literals was carved
	// from, when built with the clausepool tag. Left nil by the default
	// allocator, in which case freeClause is a no-op.
	sliceRef *[]Literal
}

func (c *Clause) isLearnt() bool  { return c.statusMask&statusLearnt != 0 }
func (c *Clause) isXor() bool     { return c.statusMask&statusXor != 0 }
func (c *Clause) isRemoved() bool { return c.statusMask&statusRemoved != 0 }
func (c *Clause) isProtected() bool { return c.statusMask&statusProtected != 0 }

func (c *Clause) setProtected()   { c.statusMask |= statusProtected }
func (c *Clause) setUnprotected() { c.statusMask &^= statusProtected }
func (c *Clause) setLearnt(v bool) {
	if v {
		c.statusMask |= statusLearnt
	} else {
		c.statusMask &^= statusLearnt
	}
}

// computeAbstraction recomputes the clause's subsumption fingerprint. Must be
// called whenever the literal set changes.
func (c *Clause) computeAbstraction() {
	var abs uint32
	for _, l := range c.literals {
		abs |= 1 << uint(l.VarID()%32)
	}
	c.abstraction = abs
}

// newClauseOrBinary builds a clause from tmpLiterals, routing size-2 results
// to the binary watch representation and size-1 results to a direct enqueue,
// since the store never holds a two-literal long clause (spec §4.1).
//
// tmpLiterals is mutated in place for non-learnt clauses (duplicates and
// root-level falsified literals are swapped to the tail and dropped), so
// callers must pass a scratch slice they own.
//
// The returned bool is false only when the clause set is now provably
// contradictory (an empty clause was derived, or a unit fact conflicted with
// an existing assignment).
func (s *Solver) newClauseOrBinary(tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true // tautological clause, always true
			}
			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return nil, true // clause satisfied at the root level
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}
		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return nil, false
	case 1:
		return nil, s.enqueue(tmpLiterals[0], antecedent{})
	case 2:
		s.addBinary(tmpLiterals[0], tmpLiterals[1], learnt)
		return nil, true
	default:
		c := newClause(tmpLiterals, learnt)
		if learnt {
			// Park the literal assigned at the highest level (other than the
			// asserting UIP at position 0) at position 1 so that both watched
			// literals are the most "recent" ones.
			maxLevel := -1
			wl := -1
			for i := 1; i < len(c.literals); i++ {
				if lvl := s.level[c.literals[i].VarID()]; lvl > maxLevel {
					maxLevel = lvl
					wl = i
				}
			}
			c.literals[wl], c.literals[1] = c.literals[1], c.literals[wl]
		}
		c.computeAbstraction()
		c.id = s.nextClauseID()

		s.watchLong(c, c.literals[0].Opposite(), c.literals[1])
		s.watchLong(c, c.literals[1].Opposite(), c.literals[0])

		return c, true
	}
}

// locked reports whether c is the antecedent of its first literal's current
// assignment, meaning it cannot be removed without breaking the trail.
func (c *Clause) locked(s *Solver) bool {
	r := s.reason[c.literals[0].VarID()]
	return r.kind == antecedentLong && r.clause == c
}

// Remove detaches c from the watch lists. Callers that learned c is being
// freed for good (vs. temporarily detached for mutation) should also drop
// every reference to it (e.g. from s.learnts/s.constraints).
func (c *Clause) Remove(s *Solver) {
	s.unwatchLong(c, c.literals[0].Opposite())
	s.unwatchLong(c, c.literals[1].Opposite())
	s.emitDeletion(c.literals)
	c.statusMask |= statusRemoved
	freeClause(c)
}

// Simplify drops literals falsified at the root level in place and reports
// whether the clause is now satisfied (and can be discarded entirely). It
// does not handle the cases where the clause shrinks below three literals;
// callers must route through ClauseCleaner (clausecleaner.go) for that.
func (c *Clause) Simplify(s *Solver) bool {
	j := 0
	for _, l := range c.literals {
		switch s.LitValue(l) {
		case True:
			return true
		case False:
			// drop
		default:
			c.literals[j] = l
			j++
		}
	}
	c.literals = c.literals[:j]
	c.computeAbstraction()
	return false
}

// Propagate is invoked when literal l (one of c's two watched literals, in
// negated form) has just become true. It restores the two-watched-literal
// invariant, or enqueues/reports a conflict on c's first literal.
func (c *Clause) Propagate(s *Solver, l Literal) bool {
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0], c.literals[1] = c.literals[1], c.literals[0]
	}

	if s.LitValue(c.literals[0]) == True {
		s.watchLong(c, l, c.literals[0])
		return true
	}

	if c.prevPos < 2 || c.prevPos >= len(c.literals) {
		c.prevPos = 2
	}
	for i := c.prevPos; i < len(c.literals); i++ {
		if s.LitValue(c.literals[i]) != False {
			c.literals[1], c.literals[i] = c.literals[i], c.literals[1]
			c.prevPos = i
			s.watchLong(c, c.literals[1].Opposite(), c.literals[0])
			return true
		}
	}
	for i := 2; i < c.prevPos; i++ {
		if s.LitValue(c.literals[i]) != False {
			c.literals[1], c.literals[i] = c.literals[i], c.literals[1]
			c.prevPos = i
			s.watchLong(c, c.literals[1].Opposite(), c.literals[0])
			return true
		}
	}

	s.watchLong(c, l, c.literals[0])
	return s.enqueue(c.literals[0], longAntecedent(c))
}

// explainConflict appends the negation of every literal of c (itself
// conflicting) into out and returns the extended slice.
func (c *Clause) explainConflict(out []Literal) []Literal {
	for _, l := range c.literals {
		out = append(out, l.Opposite())
	}
	return out
}

// explainAssign appends the negation of every literal but the asserted one
// (literals[0]) into out and returns the extended slice.
func (c *Clause) explainAssign(out []Literal) []Literal {
	for _, l := range c.literals[1:] {
		out = append(out, l.Opposite())
	}
	return out
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
