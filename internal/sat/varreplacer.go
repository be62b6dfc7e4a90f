package sat

// VarReplacer implements equivalent-literal substitution (spec.md §4.7):
// once the solver discovers that two literals are equivalent — typically
// from a learnt binary clause pair or a 2-long XOR clause — every future
// occurrence of the replaced variable is rewritten to the representative of
// its equivalence class, so the clause database only ever carries one
// variable per class (cryptominisat's Solver/VarReplacer.cpp). Unlike the
// original, which rewrites every existing clause eagerly, this table is
// consulted lazily by AddClause/AddXorClause and the model extractor, which
// is simpler and sufficient since new clauses are always routed through
// resolveLiteral/resolve before being attached.
type VarReplacer struct {
	// table[v] is the literal standing in for variable v's positive
	// literal. table[v] == PositiveLiteral(v) for a variable that is its
	// own representative (the common case, and the only one until a union
	// is recorded).
	table []Literal

	numReplacedVars int
}

func newVarReplacer() *VarReplacer {
	return &VarReplacer{}
}

func (r *VarReplacer) addVar() {
	v := len(r.table)
	r.table = append(r.table, PositiveLiteral(v))
}

// resolveLiteral rewrites l through the equivalence table.
func (r *VarReplacer) resolveLiteral(l Literal) Literal {
	rep := r.table[l.VarID()]
	if l.IsPositive() {
		return rep
	}
	return rep.Opposite()
}

// resolve rewrites a raw variable id, for XOR clauses (which carry parity in
// rhs rather than in a literal's sign): it returns the representative's
// variable id and whether resolving it flips the parity of whatever equation
// v appeared in.
func (r *VarReplacer) resolve(v int) (int, bool) {
	rep := r.table[v]
	return rep.VarID(), !rep.IsPositive()
}

// IsReplaced reports whether v has been folded into another variable's
// class and so must never be picked as a decision variable (spec.md §4.7).
func (r *VarReplacer) IsReplaced(v int) bool {
	return r.table[v].VarID() != v
}

// union records that variables v1 and v2 are equivalent: v1's literal
// equals v2's literal if !invert, or its negation if invert. Must be called
// at decision level 0, with both variables currently unassigned. Returns
// false if the union is contradictory given an already-recorded class (the
// caller must treat this the same as a derived empty clause).
func (r *VarReplacer) union(v1, v2 int, invert bool) bool {
	rep1 := r.table[v1]
	rep2 := r.table[v2]
	if invert {
		rep2 = rep2.Opposite()
	}

	if rep1.VarID() == rep2.VarID() {
		return rep1 == rep2 // same class: fine iff the polarities agree
	}

	keep, old := rep1, rep2
	if old.VarID() < keep.VarID() {
		keep, old = old, keep
	}

	for i, t := range r.table {
		if t.VarID() != old.VarID() {
			continue
		}
		nl := keep
		if t.IsPositive() != old.IsPositive() {
			nl = nl.Opposite()
		}
		r.table[i] = nl
	}

	r.numReplacedVars++
	return true
}

// NumReplacedVars returns the number of variables folded into another
// variable's equivalence class so far.
func (r *VarReplacer) NumReplacedVars() int {
	return r.numReplacedVars
}

// extendModel fills in the value of every replaced variable in model from
// its representative's value, per spec.md §4.11 model extraction.
func (r *VarReplacer) extendModel(model []bool) {
	for v, rep := range r.table {
		if rep.VarID() == v {
			continue
		}
		val := model[rep.VarID()]
		if !rep.IsPositive() {
			val = !val
		}
		model[v] = val
	}
}
