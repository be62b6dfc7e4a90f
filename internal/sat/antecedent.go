package sat

// antecedentKind tags why a variable was assigned, matching the data
// model's antecedent reference: a long-clause offset, a binary-clause pair,
// an XOR-clause reference, or "decision".
type antecedentKind uint8

const (
	antecedentDecision antecedentKind = iota
	antecedentBinary
	antecedentLong
	antecedentXor
)

// antecedent is the reason a literal was enqueued, or (when returned by
// Propagate) the clause that is currently false. The zero value represents
// "no reason" (a decision, or an externally forced unit fact).
type antecedent struct {
	// binA, binB hold the two literals of the binary clause when
	// kind == antecedentBinary.
	binA, binB Literal
	clause     *Clause
	xor        *XorClause
	kind       antecedentKind
}

func binaryAntecedent(a, b Literal) antecedent {
	return antecedent{kind: antecedentBinary, binA: a, binB: b}
}

func longAntecedent(c *Clause) antecedent {
	return antecedent{kind: antecedentLong, clause: c}
}

func xorAntecedent(x *XorClause) antecedent {
	return antecedent{kind: antecedentXor, xor: x}
}

// explainConflict appends the currently-true literals whose conjunction
// falsifies the antecedent's clause into out, returning the extended slice.
func (a antecedent) explainConflict(s *Solver, out []Literal) []Literal {
	switch a.kind {
	case antecedentBinary:
		return append(out, a.binA.Opposite(), a.binB.Opposite())
	case antecedentLong:
		return a.clause.explainConflict(out)
	case antecedentXor:
		return a.xor.explain(s, -1, out)
	default:
		panic("sat: explainConflict called on a decision antecedent")
	}
}

// explainAssign appends the currently-true literals that forced forLit into
// out, returning the extended slice. forLit must be the literal whose
// reason is a.
func (a antecedent) explainAssign(s *Solver, forLit Literal, out []Literal) []Literal {
	switch a.kind {
	case antecedentBinary:
		other := a.binA
		if forLit == a.binA {
			other = a.binB
		}
		return append(out, other.Opposite())
	case antecedentLong:
		return a.clause.explainAssign(out)
	case antecedentXor:
		return a.xor.explain(s, forLit.VarID(), out)
	default:
		return out // decision, or an externally forced fact: no reason
	}
}

// isNone reports whether a represents "no antecedent" (a decision or a
// root-level forced fact).
func (a antecedent) isNone() bool {
	return a.kind == antecedentDecision
}
