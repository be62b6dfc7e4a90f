package sat

// watchKind tags the variant stored in a watcher entry, mirroring the
// tagged-union watch-list entry of the data model: Binary | LongClause |
// XorClause.
type watchKind uint8

const (
	watchBinary watchKind = iota
	watchLong
	watchXor
)

// watcher is one entry of watchers[l]: something to examine when literal l
// is assigned true.
type watcher struct {
	kind watchKind

	// Binary: the clause is (l.Opposite() ∨ other); learnt marks redundant
	// (learnt) binaries, which the Subsumer/ReduceDB may want to drop.
	other  Literal
	learnt bool

	// Long: the attached clause plus a blocking literal (another literal of
	// the clause). If the blocker is already true the clause can be skipped
	// without touching memory — the Propagator's fast path.
	clause *Clause
	guard  Literal

	// Xor: the attached XOR clause.
	xor *XorClause
}

// watchLong registers c to be examined when lit becomes true, with guard as
// the fast-path blocking literal.
func (s *Solver) watchLong(c *Clause, lit Literal, guard Literal) {
	s.watchers[lit] = append(s.watchers[lit], watcher{kind: watchLong, clause: c, guard: guard})
}

// unwatchLong removes the (single) long-clause watch entry for c from
// watchers[lit].
func (s *Solver) unwatchLong(c *Clause, lit Literal) {
	ws := s.watchers[lit]
	for i, w := range ws {
		if w.kind == watchLong && w.clause == c {
			ws[i] = ws[len(ws)-1]
			s.watchers[lit] = ws[:len(ws)-1]
			return
		}
	}
}

// watchXorClause registers x to be examined whenever either of its two
// currently watched variables is assigned, in either polarity.
func (s *Solver) watchXorClause(x *XorClause) {
	for _, vi := range x.watch {
		s.watchXorVar(x, x.vars[vi])
	}
}

// watchXorVar registers x to be examined whenever variable v is assigned,
// in either polarity.
func (s *Solver) watchXorVar(x *XorClause, v int) {
	pl := PositiveLiteral(v)
	s.watchers[pl] = append(s.watchers[pl], watcher{kind: watchXor, xor: x})
	s.watchers[pl.Opposite()] = append(s.watchers[pl.Opposite()], watcher{kind: watchXor, xor: x})
}

// unwatchXorVar removes every watchXor entry for x from both polarities of
// variable v's watch lists.
func (s *Solver) unwatchXorVar(x *XorClause, v int) {
	for _, lit := range [2]Literal{PositiveLiteral(v), NegativeLiteral(v)} {
		ws := s.watchers[lit]
		j := 0
		for _, w := range ws {
			if w.kind == watchXor && w.xor == x {
				continue
			}
			ws[j] = w
			j++
		}
		s.watchers[lit] = ws[:j]
	}
}

// addBinary registers the mirrored watch entries for binary clause (a ∨ b).
func (s *Solver) addBinary(a, b Literal, learnt bool) {
	s.watchers[a.Opposite()] = append(s.watchers[a.Opposite()], watcher{kind: watchBinary, other: b, learnt: learnt})
	s.watchers[b.Opposite()] = append(s.watchers[b.Opposite()], watcher{kind: watchBinary, other: a, learnt: learnt})
	if learnt {
		s.numLearntBins++
	} else {
		s.numBins++
	}
}

// removeBinary unregisters both mirrored entries of binary clause (a ∨ b).
// No pass in the package calls it at present.
func (s *Solver) removeBinary(a, b Literal, learnt bool) {
	removeMirror := func(lit, other Literal) {
		ws := s.watchers[lit]
		for i, w := range ws {
			if w.kind == watchBinary && w.other == other {
				ws[i] = ws[len(ws)-1]
				s.watchers[lit] = ws[:len(ws)-1]
				return
			}
		}
	}
	removeMirror(a.Opposite(), b)
	removeMirror(b.Opposite(), a)
	if learnt {
		s.numLearntBins--
	} else {
		s.numBins--
	}
}
