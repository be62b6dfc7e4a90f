package sat

import (
	"fmt"
	"os"
	"sort"
	"time"
)

// Solver is a CDCL SAT solver extended with native XOR-clause reasoning. It
// owns every piece of mutable state directly (clause database, watch lists,
// trail, variable ordering): there is no inheritance and no global state, by
// design (spec.md §9).
type Solver struct {
	config Config

	// Clause database.
	constraints []*Clause
	learnts     []*Clause
	xorClauses  []*XorClause
	clauseInc   float64
	nextID      int64
	numBins     int
	numLearntBins int

	// Variable ordering.
	activities []float64
	varInc     float64
	order      *VarOrder

	// Propagation and watchers, indexed by literal encoding.
	watchers  [][]watcher
	propQueue *Queue[Literal]

	// Value assigned to each literal (mirrors assigns[l] == assigns[l.Opposite()].Opposite()).
	assigns []LBool

	// Trail.
	trail    []Literal
	trailLim []int
	reason   []antecedent
	level    []int

	// Whether the problem has reached a top-level conflict. Sticky: once
	// set, every subsequent call returns UNSAT without doing work (spec §7).
	unsat bool

	// Inprocessing subsystems.
	replacer *VarReplacer
	elimLog  *eliminationLog
	gauss    *gaussPool

	// Search statistics.
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
	TotalDecisions  int64
	bogoprops       int64
	startTime       time.Time

	// Restart control.
	glueEMA               EMA // fast-decaying average of recent learnt-clause glue
	glueEMASlow           EMA // slow-decaying average, the dynamic restart baseline
	restartLubyRun        int64
	conflictsSinceRestart int64

	// Cooperative cancellation, polled at safe points.
	interrupted bool

	// Assumptions (spec §6 solve(assumptions?)).
	assumptions   []Literal
	finalConflict []Literal

	// Models.
	Models [][]bool

	proof *proofWriter

	// Reusable scratch state.
	seenVar     *ResetSet
	tmpWatchers []watcher
	tmpLearnts  []Literal
	tmpReason   []Literal
	tmpReason2  []Literal
	tmpMinStack []Literal
	tmpGlueSeen []int
}

// invalidLiteral is the sentinel used in place of a real literal when
// explaining a conflict (as opposed to explaining a specific assignment).
const invalidLiteral Literal = -1

// NewDefaultSolver returns a solver configured with DefaultConfig.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultConfig)
}

// NewSolver returns a new, empty solver configured with cfg.
func NewSolver(cfg Config) *Solver {
	if cfg.LogWriter == nil {
		cfg.LogWriter = os.Stdout
	}
	s := &Solver{
		config:    cfg,
		clauseInc: 1,
		varInc:    1,
		propQueue: NewQueue[Literal](128),
		seenVar:   &ResetSet{},
		order:     NewVarOrder(cfg.VariableDecay, cfg.PhaseSaving, cfg.PolarityMode),
		replacer:  newVarReplacer(),
		elimLog:   newEliminationLog(),
		gauss:       newGaussPool(),
		glueEMA:     NewEMA(1 - 1.0/50),
		glueEMASlow: NewEMA(1 - 1.0/5000),
	}
	if cfg.ProofFile != "" {
		pw, err := newProofWriter(cfg.ProofFile)
		if err != nil {
			fmt.Fprintf(cfg.LogWriter, "c warning: could not open proof file %q: %s\n", cfg.ProofFile, err)
		} else {
			s.proof = pw
		}
	}
	return s
}

func (s *Solver) nextClauseID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Solver) shouldStop() bool {
	if s.interrupted {
		return true
	}
	if s.config.ConflictLimit >= 0 && s.config.ConflictLimit <= s.TotalConflicts {
		return true
	}
	if s.config.Timeout >= 0 && s.config.Timeout <= time.Since(s.startTime) {
		return true
	}
	return false
}

// Interrupt sets the cooperative cancellation flag. It is safe to call from
// a different goroutine than the one driving Solve; the flag is only
// polled, never raced on for correctness. It is read by the search loop
// (once per iteration) and by Solve between search rounds; Propagate and
// the inprocessing passes do not read it, so a running pass completes
// before the interrupt takes effect.
func (s *Solver) Interrupt() {
	s.interrupted = true
}

func (s *Solver) PositiveLiteral(varID int) Literal {
	return Literal(varID * 2)
}

func (s *Solver) NegativeLiteral(varID int) Literal {
	return s.PositiveLiteral(varID).Opposite()
}

func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

func (s *Solver) NumConstraints() int {
	return len(s.constraints) + s.numBins
}

func (s *Solver) NumLearnts() int {
	return len(s.learnts) + s.numLearntBins
}

func (s *Solver) VarValue(x int) LBool {
	return s.assigns[s.PositiveLiteral(x)]
}

func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

// AddVariable allocates and returns a new variable's id.
func (s *Solver) AddVariable() int {
	index := s.NumVariables()
	s.watchers = append(s.watchers, nil, nil)
	s.reason = append(s.reason, antecedent{})
	s.seenVar.Expand()

	s.assigns = append(s.assigns, Unknown, Unknown)
	s.level = append(s.level, -1)
	s.activities = append(s.activities, 0)
	s.order.AddVar(0)
	s.replacer.addVar()
	s.elimLog.addVar()

	return index
}

// AddVariables allocates n new variables and returns the id of the first
// one (ids are always contiguous and increasing).
func (s *Solver) AddVariables(n int) int {
	first := s.NumVariables()
	for i := 0; i < n; i++ {
		s.AddVariable()
	}
	return first
}

// AddClause adds a clause to the problem. Must be called at decision level
// 0. Literals are canonicalized (duplicates/tautologies removed, root-false
// literals dropped); the clause set may transition to UNSAT.
func (s *Solver) AddClause(clause []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, must be 0", s.decisionLevel())
	}
	if s.unsat {
		return nil
	}

	tmp := append([]Literal(nil), clause...)
	s.rewriteForReplacement(tmp)

	binsBefore := s.numBins
	c, ok := s.newClauseOrBinary(tmp, false)
	if c != nil {
		s.constraints = append(s.constraints, c)
		s.emitAddition(c.literals)
	} else if s.numBins > binsBefore {
		s.emitAddition(tmp[:2])
	}
	if !ok {
		s.unsat = true
	}
	return nil
}

// AddXorClause adds an XOR constraint: the parity of vars equals rhs.
func (s *Solver) AddXorClause(vars []int, rhs bool) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddXorClause called at decision level %d, must be 0", s.decisionLevel())
	}
	if s.unsat {
		return nil
	}

	rewritten := make([]int, 0, len(vars))
	for _, v := range vars {
		rv, flip := s.replacer.resolve(v)
		rewritten = append(rewritten, rv)
		rhs = rhs != flip
	}

	x, ok := s.newXorClauseOrUnit(rewritten, rhs)
	_ = x
	if !ok {
		s.unsat = true
	}
	return nil
}

// rewriteForReplacement applies the current equivalence table to each
// literal of lits in place.
func (s *Solver) rewriteForReplacement(lits []Literal) {
	for i, l := range lits {
		lits[i] = s.replacer.resolveLiteral(l)
	}
}

// Simplify simplifies the clause database according to the root-level
// assignments, removing satisfied clauses (spec §4.6 ClauseCleaner). It is
// a no-op (returning false) once the solver is UNSAT.
func (s *Solver) Simplify() bool {
	if l := s.decisionLevel(); l != 0 {
		panic(fmt.Sprintf("sat: Simplify called at decision level %d, must be 0", l))
	}
	if s.propQueue.Size() != 0 {
		panic("sat: Simplify called with a non-empty propagation queue")
	}
	if s.unsat {
		return false
	}
	if conf := s.Propagate(); conf != nil {
		s.unsat = true
		return false
	}

	s.cleanClauses(&s.learnts)
	s.cleanClauses(&s.constraints)

	return true
}

// ReduceDB shrinks the learnt-clause database, keeping clauses with low glue
// (spec §4.5: "keep all glue ≤ 2, keep top half of the remainder").
// Protected and locked clauses are always kept as well; the remainder is
// ranked by sortLearntsByQuality and its worse half is removed.
func (s *Solver) ReduceDB() {
	if len(s.learnts) == 0 {
		return
	}

	sortLearntsByQuality(s.learnts)

	keepAlways := func(c *Clause) bool {
		return c.isProtected() || c.locked(s) || c.lbd <= 2
	}
	rest := 0
	for _, c := range s.learnts {
		if !keepAlways(c) {
			rest++
		}
	}

	j, keptRest := 0, 0
	for _, c := range s.learnts {
		if !keepAlways(c) {
			if keptRest >= rest/2 {
				c.Remove(s)
				continue
			}
			keptRest++
		}
		s.learnts[j] = c
		j++
	}
	s.learnts = s.learnts[:j]

	for _, c := range s.learnts {
		c.setUnprotected()
	}
}

// sortLearntsByQuality orders cs best first: lower glue first and, among
// clauses of equal glue, higher activity first.
func sortLearntsByQuality(cs []*Clause) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].lbd != cs[j].lbd {
			return cs[i].lbd < cs[j].lbd
		}
		return cs[i].activity > cs[j].activity
	})
}

func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

func (s *Solver) BumpClaActivity(c *Clause) {
	c.activity += s.clauseInc
	if c.activity > 1e100 {
		s.clauseInc *= 1e-100
		for _, l := range s.learnts {
			l.activity *= 1e-100
		}
	}
}

func (s *Solver) BumpVarActivity(l Literal) {
	vid := l.VarID()
	s.activities[vid] += s.varInc
	if s.activities[vid] > 1e100 {
		s.varInc *= 1e-100
		for i := range s.activities {
			s.activities[i] *= 1e-100
		}
	}
	s.order.BumpScore(vid)
}

func (s *Solver) DecayClaActivity() {
	s.clauseInc /= s.config.ClauseDecay
}

func (s *Solver) DecayVarActivity() {
	s.order.DecayScores()
}

// Propagate drains the propagation queue, dispatching over the tagged
// watcher union (Binary | Long | Xor). It returns the antecedent of the
// first clause found conflicting, or nil if propagation reaches a fixed
// point.
func (s *Solver) Propagate() *antecedent {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()
		s.bogoprops++

		s.tmpWatchers = append(s.tmpWatchers[:0], s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			switch w.kind {
			case watchBinary:
				// Binary watch entries are permanent mirrors: they are never
				// removed or moved, only ever re-appended here.
				s.watchers[l] = append(s.watchers[l], w)
				switch s.LitValue(w.other) {
				case True:
					continue
				case Unknown:
					s.enqueue(w.other, binaryAntecedent(l.Opposite(), w.other))
					continue
				default:
					conf := binaryAntecedent(l.Opposite(), w.other)
					s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
					s.propQueue.Clear()
					return &conf
				}
			case watchLong:
				s.bogoprops++
				if s.LitValue(w.guard) == True {
					s.watchers[l] = append(s.watchers[l], w)
					continue
				}
				if w.clause.Propagate(s, l) {
					continue
				}
				conf := longAntecedent(w.clause)
				s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
				s.propQueue.Clear()
				return &conf
			case watchXor:
				s.bogoprops++
				if w.xor.Propagate(s, l) {
					continue
				}
				conf := xorAntecedent(w.xor)
				s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
				s.propQueue.Clear()
				return &conf
			}
		}
	}
	return nil
}

func (s *Solver) enqueue(l Literal, from antecedent) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		varID := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[varID] = s.decisionLevel()
		s.reason[varID] = from
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

func (s *Solver) record(clause []Literal, lbd uint32) {
	c, _ := s.newClauseOrBinary(clause, true)
	if c != nil {
		c.lbd = lbd
		s.enqueue(c.literals[0], longAntecedent(c))
		s.learnts = append(s.learnts, c)
		s.emitAddition(c.literals)
	} else {
		s.enqueue(clause[0], antecedent{})
		if len(clause) == 2 {
			s.emitAddition(clause)
		}
	}
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	val := s.assigns[l]
	s.order.Reinsert(v, val)
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = antecedent{}
	s.level[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, antecedent{})
}

func (s *Solver) cancel() {
	c := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
	s.gauss.rollbackTo(s.decisionLevel())
}

func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
}

// saveModel records a full model, extending the trail's assignment to cover
// Replaced and Eliminated variables (spec.md §4.11).
func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		model[i] = s.valueForModel(i)
	}
	s.replacer.extendModel(model)
	s.elimLog.reconstruct(model)
	s.Models = append(s.Models, model)
}

func (s *Solver) printSeparator() {
	fmt.Fprintln(s.config.LogWriter, "c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Fprintln(s.config.LogWriter, "c            time     iterations      conflicts       restarts        learnts")
}

func (s *Solver) printSearchStats() {
	fmt.Fprintf(s.config.LogWriter,
		"c %14.3fs %14d %14d %14d %14d\n",
		time.Since(s.startTime).Seconds(),
		s.TotalIterations,
		s.TotalConflicts,
		s.TotalRestarts,
		s.NumLearnts())
}
