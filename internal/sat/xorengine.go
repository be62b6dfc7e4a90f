package sat

import "sort"

// RunXorEngine performs one pass of XOR finding over the CNF clause database
// followed by Heule-style conglomeration over the existing XOR clauses
// (spec.md §4.10), grounded on src/xor.h, Solver/XorFinder.cpp and
// Solver/Conglomerate.cpp. Must be called at decision level 0.
func (s *Solver) RunXorEngine(budget int64) {
	if !s.config.EnableXor {
		return
	}
	start := s.bogoprops

	s.findXorClauses(start, budget)
	if s.unsat {
		return
	}
	s.conglomerateXorClauses(start, budget)
	if s.unsat {
		return
	}
	s.RunGauss(budget - (s.bogoprops - start))
}

// maxXorFindWidth bounds the combinatorial check in findXorClauses: an XOR
// of width k requires grouping and checking 2^(k-1) clauses.
const maxXorFindWidth = 6

// findXorClauses detects groups of plain CNF clauses that together encode
// an XOR constraint (spec.md §4.10 "XOR finding"): clauses sharing the same
// variable set, whose count matches 2^(k-1) and whose negation parity is
// uniform, are replaced by a single native XOR clause.
func (s *Solver) findXorClauses(start, budget int64) {
	groups := map[string][]*Clause{}
	groupVars := map[string][]int{}

	for _, c := range s.constraints {
		if c.isRemoved() || c.isLearnt() || c.isXor() {
			continue
		}
		if len(c.literals) < 3 || len(c.literals) > maxXorFindWidth {
			continue
		}
		vars := make([]int, len(c.literals))
		for i, l := range c.literals {
			vars[i] = l.VarID()
		}
		sort.Ints(vars)
		dup := false
		for i := 1; i < len(vars); i++ {
			if vars[i] == vars[i-1] {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		key := varSetKey(vars)
		groups[key] = append(groups[key], c)
		groupVars[key] = vars
	}

	for key, cs := range groups {
		if s.bogoprops-start > budget {
			return
		}
		s.bogoprops += int64(len(cs))

		k := len(cs[0].literals)
		want := 1 << uint(k-1)
		if len(cs) != want {
			continue
		}

		evenCount := 0
		for _, c := range cs {
			negs := 0
			for _, l := range c.literals {
				if !l.IsPositive() {
					negs++
				}
			}
			if negs%2 == 0 {
				evenCount++
			}
		}

		var rhs bool
		switch evenCount {
		case want:
			rhs = true
		case 0:
			rhs = false
		default:
			continue // mixed parity: not a clean XOR encoding, leave as CNF
		}

		for _, c := range cs {
			c.Remove(s)
		}
		if _, ok := s.newXorClauseOrUnit(groupVars[key], rhs); !ok {
			s.unsat = true
			return
		}
	}

	s.compactRemoved()
}

func varSetKey(vars []int) string {
	b := make([]byte, 0, len(vars)*4)
	for _, v := range vars {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(b)
}

// conglomerateXorClauses implements Heule-style XOR summing (spec.md §4.10):
// for two XOR clauses sharing a variable, their GF(2) sum eliminates that
// variable. A blocked set prevents revisiting a variable once processed,
// bounding the pass to a single sweep.
func (s *Solver) conglomerateXorClauses(start, budget int64) {
	blocked := map[int]bool{}

	byVar := map[int][]*XorClause{}
	for _, x := range s.xorClauses {
		if x.removed {
			continue
		}
		for _, v := range x.vars {
			byVar[v] = append(byVar[v], x)
		}
	}

	for v, cs := range byVar {
		if s.bogoprops-start > budget {
			break
		}
		if blocked[v] || len(cs) < 2 {
			continue
		}
		x1, x2 := cs[0], cs[1]
		if x1.removed || x2.removed {
			continue
		}
		s.bogoprops += int64(len(x1.vars) + len(x2.vars))
		blocked[v] = true

		vars, rhs := sumXorClauses(x1, x2)

		// x1 and x2 are deliberately kept attached rather than removed: the
		// sum is only a derived consequence, and the pivot variable v (along
		// with vars[1] in the 2-long case) must still be reachable from some
		// live constraint so it is never "replaced yet unconstrained" — see
		// VarReplacer's doc comment on lazy rather than eager rewriting.
		switch len(vars) {
		case 0:
			if rhs {
				s.unsat = true
				return
			}
		case 1:
			lit := PositiveLiteral(vars[0])
			if !rhs {
				lit = NegativeLiteral(vars[0])
			}
			if !s.enqueue(lit, antecedent{}) {
				s.unsat = true
				return
			}
		case 2:
			if !s.replacer.union(vars[0], vars[1], rhs) {
				s.unsat = true
				return
			}
			s.order.SetDecisionCandidate(vars[1], false)
		}
	}

	if conf := s.Propagate(); conf != nil {
		s.unsat = true
	}
}

// sumXorClauses returns the GF(2) sum x1⊕x2 — variables present in both
// cancel out (spec.md §4.10: "v + v = 0") — and its combined rhs.
func sumXorClauses(x1, x2 *XorClause) ([]int, bool) {
	count := map[int]int{}
	for _, v := range x1.vars {
		count[v]++
	}
	for _, v := range x2.vars {
		count[v]++
	}
	var vars []int
	for v, c := range count {
		if c%2 != 0 {
			vars = append(vars, v)
		}
	}
	sort.Ints(vars)
	return vars, x1.rhs != x2.rhs
}
