package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// VarOrder maintains the order in which free variables are offered to the
// Decide state. A binary heap (github.com/rhartert/yagh) gives O(log n)
// access to the highest-activity unassigned variable; ties are broken by
// insertion order, matching the order variables were declared in.
type VarOrder struct {
	order *yagh.IntMap[float64]

	scores     []float64 // in [0, 1e100)
	scoreInc   float64   // in (0, 1e100)
	scoreDecay float64   // in (0, 1]

	phases      []LBool
	phaseSaving bool
	polarity    PolarityMode
	rng         *rand.Rand

	// decisionCandidate[v] is false for variables that must never be picked
	// as a decision (Replaced or Eliminated variables, per the data model).
	decisionCandidate []bool

	// numCandidates is the count of true entries in decisionCandidate, used
	// by the solver to know how many variables the trail must cover before
	// declaring SAT (spec.md §4.5 Decide: "If no unassigned vars remain").
	numCandidates int
}

// NewVarOrder returns a new, empty VarOrder.
func NewVarOrder(decay float64, phaseSaving bool, polarity PolarityMode) *VarOrder {
	return &VarOrder{
		order:      yagh.New[float64](0),
		scoreInc:   1,
		scoreDecay: decay,
		phases:     make([]LBool, 0),
		phaseSaving: phaseSaving,
		polarity:    polarity,
		rng:         rand.New(rand.NewSource(1)),
	}
}

// AddVar registers a newly allocated variable with the given initial score.
func (vo *VarOrder) AddVar(initScore float64) {
	varID := len(vo.phases)

	vo.scores = append(vo.scores, initScore)
	vo.phases = append(vo.phases, Unknown)
	vo.decisionCandidate = append(vo.decisionCandidate, true)
	vo.numCandidates++

	vo.order.GrowBy(1)
	vo.order.Put(varID, -initScore)
}

// Reinsert adds variable v back to the set of decision candidates. Must be
// called when v is unassigned by a backtrack, with val the value v had
// before being undone (used for phase saving).
func (vo *VarOrder) Reinsert(v int, val LBool) {
	if vo.phaseSaving {
		vo.phases[v] = val
	}
	if vo.decisionCandidate[v] {
		vo.order.Put(v, -vo.scores[v])
	}
}

// SetDecisionCandidate toggles whether v may ever be picked as a decision.
// Replaced and Eliminated variables are marked non-candidate; NextDecision
// skips them lazily on pop, the same way it skips already-assigned
// variables, since the heap has no cheap arbitrary-element removal.
func (vo *VarOrder) SetDecisionCandidate(v int, candidate bool) {
	if vo.decisionCandidate[v] == candidate {
		return
	}
	vo.decisionCandidate[v] = candidate
	if candidate {
		vo.numCandidates++
	} else {
		vo.numCandidates--
	}
}

// NumCandidates returns the number of variables still eligible to be picked
// as a decision (i.e. not Replaced or Eliminated).
func (vo *VarOrder) NumCandidates() int {
	return vo.numCandidates
}

// DecayScores slightly decreases all scores relative to future bumps, so
// that recently-bumped variables dominate the ordering.
func (vo *VarOrder) DecayScores() {
	vo.scoreInc /= vo.scoreDecay
	if vo.scoreInc > 1e100 {
		vo.rescale()
	}
}

// BumpScore increases the score of variable v.
func (vo *VarOrder) BumpScore(v int) {
	newScore := vo.scores[v] + vo.scoreInc
	vo.scores[v] = newScore
	if vo.order.Contains(v) {
		vo.order.Put(v, -newScore)
	}
	if newScore > 1e100 {
		vo.rescale()
	}
}

// NextDecision pops and returns the next unassigned decision literal.
func (vo *VarOrder) NextDecision(s *Solver) Literal {
	for {
		next, ok := vo.order.Pop()
		if !ok {
			panic("sat: VarOrder.NextDecision called with no free variables")
		}
		if s.VarValue(next.Elem) != Unknown || !vo.decisionCandidate[next.Elem] {
			continue
		}
		return vo.decideLiteral(next.Elem)
	}
}

func (vo *VarOrder) decideLiteral(v int) Literal {
	phase := vo.phases[v]
	if vo.phaseSaving && phase != Unknown {
		if phase == True {
			return PositiveLiteral(v)
		}
		return NegativeLiteral(v)
	}

	switch vo.polarity {
	case PolarityPos:
		return PositiveLiteral(v)
	case PolarityNeg:
		return NegativeLiteral(v)
	case PolarityRnd:
		if vo.rng.Intn(2) == 0 {
			return PositiveLiteral(v)
		}
		return NegativeLiteral(v)
	default:
		return PositiveLiteral(v)
	}
}

func (vo *VarOrder) rescale() {
	vo.scoreInc *= 1e-100
	for v, sc := range vo.scores {
		newScore := sc * 1e-100
		vo.scores[v] = newScore
		if vo.order.Contains(v) {
			vo.order.Put(v, -newScore)
		}
	}
}
