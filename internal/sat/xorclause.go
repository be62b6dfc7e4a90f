package sat

import (
	"sort"
	"strings"
)

// XorClause asserts that the parity (XOR) of the listed variables equals
// rhs. Signs are normalized away into rhs during construction (data model
// §3): vars holds unsigned variable ids.
type XorClause struct {
	id   int64
	vars []int
	rhs  bool

	// watch holds the two positions (indices into vars) currently watched.
	// Outside propagation, a watched variable is assigned only once every
	// variable of the clause is assigned.
	watch [2]int

	removed bool
}

// normalizeXorVars sorts vars and cancels duplicate occurrences (v XOR v =
// 0), flipping rhs is never needed for duplicate cancellation (only for sign
// absorption, which callers must have already done before calling this).
func normalizeXorVars(vars []int) []int {
	sorted := append([]int(nil), vars...)
	sort.Ints(sorted)

	out := sorted[:0]
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if (j-i)%2 == 1 {
			out = append(out, sorted[i])
		}
		i = j
	}
	return out
}

// newXorClauseOrUnit builds an XOR clause from vars, which it normalizes
// first (duplicate variables cancel). If fewer than two variables remain unassigned at
// construction time the XOR is resolved immediately (enqueued or checked)
// and no persistent clause is created, mirroring the way newClauseOrBinary resolves
// already-decided ordinary clauses at add time.
func (s *Solver) newXorClauseOrUnit(vars []int, rhs bool) (*XorClause, bool) {
	vars = normalizeXorVars(vars)

	switch len(vars) {
	case 0:
		return nil, !rhs // XOR of no variables is 0; consistent iff rhs is false
	case 1:
		lit := NegativeLiteral(vars[0])
		if rhs {
			lit = PositiveLiteral(vars[0])
		}
		return nil, s.enqueue(lit, antecedent{})
	}

	unassigned := make([]int, 0, 2)
	parity := rhs
	for i, v := range vars {
		switch s.VarValue(v) {
		case Unknown:
			if len(unassigned) < 2 {
				unassigned = append(unassigned, i)
			}
		case True:
			parity = !parity
		}
	}

	switch len(unassigned) {
	case 0:
		return nil, !parity
	case 1:
		lit := NegativeLiteral(vars[unassigned[0]])
		if parity {
			lit = PositiveLiteral(vars[unassigned[0]])
		}
		return nil, s.enqueue(lit, antecedent{})
	default:
		x := &XorClause{
			id:    s.nextClauseID(),
			vars:  vars,
			rhs:   rhs,
			watch: [2]int{unassigned[0], unassigned[1]},
		}
		s.watchXorClause(x)
		s.xorClauses = append(s.xorClauses, x)
		return x, true
	}
}

// watchSlot returns which of the two watch slots corresponds to variable v,
// or -1 if v is not currently watched by x.
func (x *XorClause) watchSlot(v int) int {
	if x.vars[x.watch[0]] == v {
		return 0
	}
	if x.vars[x.watch[1]] == v {
		return 1
	}
	return -1
}

// Propagate is invoked when the variable of literal l, one of x's two
// watched variables, has just been assigned. It restores the two-watched-
// variable invariant, or enqueues/reports conflict on the remaining watched
// variable.
func (x *XorClause) Propagate(s *Solver, l Literal) bool {
	v := l.VarID()
	slot := x.watchSlot(v)
	if slot < 0 {
		return true // stale entry (already moved), nothing to do
	}
	other := 1 - slot

	for i := range x.vars {
		if i == x.watch[0] || i == x.watch[1] {
			continue
		}
		if s.VarValue(x.vars[i]) == Unknown {
			s.unwatchXorVar(x, v)
			x.watch[slot] = i
			s.watchXorVar(x, x.vars[i])
			return true
		}
	}

	otherVar := x.vars[x.watch[other]]
	if s.VarValue(otherVar) != Unknown {
		return x.checkConsistent(s)
	}

	parity := x.rhs
	for i, varID := range x.vars {
		if i == x.watch[other] {
			continue
		}
		if s.VarValue(varID) == True {
			parity = !parity
		}
	}
	lit := NegativeLiteral(otherVar)
	if parity {
		lit = PositiveLiteral(otherVar)
	}
	return s.enqueue(lit, antecedent{kind: antecedentXor, xor: x})
}

// checkConsistent verifies the XOR's parity under a fully-assigned variable
// set, used when both watched variables become assigned in the same sweep.
func (x *XorClause) checkConsistent(s *Solver) bool {
	parity := false
	for _, v := range x.vars {
		if s.VarValue(v) == True {
			parity = !parity
		}
	}
	return parity == x.rhs
}

// explain appends the currently-true causing literal for every variable of x
// except excludeVar (-1 to exclude none, for a conflicting XOR) into out.
func (x *XorClause) explain(s *Solver, excludeVar int, out []Literal) []Literal {
	for _, v := range x.vars {
		if v == excludeVar {
			continue
		}
		if s.VarValue(v) == True {
			out = append(out, PositiveLiteral(v))
		} else {
			out = append(out, NegativeLiteral(v))
		}
	}
	return out
}

// Remove detaches x from the watch lists of both its currently watched
// variables.
func (x *XorClause) Remove(s *Solver) {
	x.removed = true
	s.unwatchXorVar(x, x.vars[x.watch[0]])
	s.unwatchXorVar(x, x.vars[x.watch[1]])
}

func (x *XorClause) String() string {
	sb := strings.Builder{}
	sb.WriteString("Xor[")
	for i, v := range x.vars {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Literal(v * 2).String())
	}
	sb.WriteString("] = ")
	if x.rhs {
		sb.WriteByte('1')
	} else {
		sb.WriteByte('0')
	}
	return sb.String()
}
