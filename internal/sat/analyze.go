package sat

// analyze implements 1-UIP conflict-driven clause learning (spec.md §4.4):
// walk the implication graph backwards from the conflict, marking each
// antecedent literal assigned at the current level, until exactly one
// marked literal remains at that level (the first unique implication
// point). The learnt clause is the negation of that literal together with
// the negation of every marked literal assigned at a lower decision level.
//
// It returns the learnt clause (literal 0 is the asserting UIP literal),
// the backjump level, and the clause's glue (LBD).
func (s *Solver) analyze(confl antecedent) ([]Literal, int, uint32) {
	nImplicationPoints := 0

	s.tmpLearnts = append(s.tmpLearnts[:0], invalidLiteral) // reserved for the UIP
	nextLiteral := len(s.trail) - 1

	l := invalidLiteral
	s.seenVar.Clear()
	backtrackLevel := 0

	for {
		for _, q := range s.explainLits(confl, l) {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)

			if s.level[v] == s.decisionLevel() {
				nImplicationPoints++
				continue
			}

			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if lvl := s.level[v]; lvl > backtrackLevel {
				backtrackLevel = lvl
			}
		}

		for {
			l = s.trail[nextLiteral]
			nextLiteral--
			v := l.VarID()
			confl = s.reason[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnts[0] = l.Opposite()

	levelMask := s.levelAbstraction(s.tmpLearnts)
	s.tmpLearnts = s.minimizeLearnt(s.tmpLearnts, levelMask)

	glue := s.computeGlue(s.tmpLearnts)
	backtrackLevel = s.secondHighestLevel(s.tmpLearnts)

	return s.tmpLearnts, backtrackLevel, glue
}

// explainLits returns, in "true causing literal" form, the antecedents of l
// (or of the conflict itself, when l is invalidLiteral). Clause activity is
// bumped for learnt clauses visited along the way, matching the teacher's
// Explain{Failure,Assign} behavior.
func (s *Solver) explainLits(a antecedent, l Literal) []Literal {
	if a.kind == antecedentLong && a.clause.isLearnt() {
		s.BumpClaActivity(a.clause)
	}
	s.tmpReason = s.tmpReason[:0]
	if l == invalidLiteral {
		return a.explainConflict(s, s.tmpReason)
	}
	return a.explainAssign(s, l, s.tmpReason)
}

// levelAbstraction returns a 32-bit mask with bit (level%32) set for every
// decision level present among lits, used to cheaply reject minimization
// resolution steps that would cross into an unrelated level (spec.md §4.4.1).
func (s *Solver) levelAbstraction(lits []Literal) uint32 {
	var mask uint32
	for _, l := range lits {
		mask |= 1 << uint(s.level[l.VarID()]%32)
	}
	return mask
}

// minimizeLearnt drops every non-UIP literal of lits that is implied by the
// clause's other literals (spec.md §4.4 post-processing step 1). lits[0],
// the UIP, is always kept.
func (s *Solver) minimizeLearnt(lits []Literal, levelMask uint32) []Literal {
	keep := lits[:1]
	for _, lit := range lits[1:] {
		if s.level[lit.VarID()] != 0 && s.litRedundant(lit.Opposite(), levelMask) {
			continue // implied by the rest of the clause, drop it
		}
		keep = append(keep, lit)
	}
	return keep
}

// litRedundant reports whether the trail literal q's assignment is fully
// explained by literals already in the clause (marked in seenVar) or by
// level-0 facts, reachable only through antecedent levels present in
// levelMask. On success, every variable resolved through stays marked in
// seenVar; on failure, the marks added by this call are removed again so
// that later checks never treat an unproven literal as part of the clause.
func (s *Solver) litRedundant(q Literal, levelMask uint32) bool {
	if s.reason[q.VarID()].isNone() {
		return false
	}

	stack := s.tmpMinStack[:0]
	stack = append(stack, q)
	var added []int

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ra := s.reason[cur.VarID()]
		for _, p2 := range ra.explainAssign(s, cur, s.tmpReason2[:0]) {
			v2 := p2.VarID()
			if s.seenVar.Contains(v2) {
				continue
			}
			lvl2 := s.level[v2]
			if lvl2 == 0 {
				continue
			}
			r2 := s.reason[v2]
			if r2.isNone() || levelMask&(1<<uint(lvl2%32)) == 0 {
				for _, v := range added {
					s.seenVar.addedAt[v] = 0
				}
				s.tmpMinStack = stack
				return false
			}
			s.seenVar.Add(v2)
			added = append(added, v2)
			stack = append(stack, p2)
		}
	}

	s.tmpMinStack = stack
	return true
}

// computeGlue returns the number of distinct decision levels among lits.
func (s *Solver) computeGlue(lits []Literal) uint32 {
	seen := s.tmpGlueSeen
	defer func() { s.tmpGlueSeen = seen[:0] }()
	count := uint32(0)
	for _, l := range lits {
		lvl := s.level[l.VarID()]
		found := false
		for _, v := range seen {
			if v == lvl {
				found = true
				break
			}
		}
		if !found {
			seen = append(seen, lvl)
			count++
		}
	}
	return count
}

// secondHighestLevel returns the second-highest decision level among lits,
// or 0 if lits is unit (the backjump level, spec.md §4.4 post-processing
// step 3).
func (s *Solver) secondHighestLevel(lits []Literal) int {
	if len(lits) <= 1 {
		return 0
	}
	best := -1
	for _, l := range lits[1:] {
		if lvl := s.level[l.VarID()]; lvl > best {
			best = lvl
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
