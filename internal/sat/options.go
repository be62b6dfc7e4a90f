package sat

import (
	"io"
	"time"
)

// PolarityMode selects how VarOrder picks the sign of the next decision
// variable when no saved phase (or phase saving) applies.
type PolarityMode uint8

const (
	PolarityAuto PolarityMode = iota
	PolarityPos
	PolarityNeg
	PolarityRnd
	PolarityUser
)

// RestartType selects between a static (Luby/geometric) restart schedule and
// a dynamic one driven by the glue exponential moving average.
type RestartType uint8

const (
	RestartStatic RestartType = iota
	RestartDynamic
)

// Config bundles every tunable enumerated by the programmatic API (spec §6).
type Config struct {
	Verbosity int

	// ConflictLimit caps the number of conflicts Solve will tolerate before
	// giving up with Unknown. A negative value means unlimited.
	ConflictLimit int64

	// Timeout is a wall-clock budget. A negative value means unlimited.
	Timeout time.Duration

	ClauseDecay   float64
	VariableDecay float64
	PhaseSaving   bool
	PolarityMode  PolarityMode
	RestartType   RestartType

	EnableProbing bool
	EnableElim    bool
	EnableXor     bool
	EnableGauss   bool
	HyperBin      bool

	// ProofFile, if non-empty, receives a DRAT-compatible textual trace of
	// every learnt-clause addition and clause removal.
	ProofFile string

	// LogWriter receives periodic search-progress lines when Verbosity > 0.
	// Defaults to os.Stdout.
	LogWriter io.Writer
}

// DefaultConfig mirrors the teacher's DefaultOptions, extended with the
// inprocessing toggles and restart/polarity policy of spec.md §6.
var DefaultConfig = Config{
	Verbosity:     0,
	ConflictLimit: -1,
	Timeout:       -1,
	ClauseDecay:   0.999,
	VariableDecay: 0.95,
	PhaseSaving:   true,
	PolarityMode:  PolarityAuto,
	RestartType:   RestartDynamic,
	EnableProbing: true,
	EnableElim:    true,
	EnableXor:     true,
	EnableGauss:   true,
	HyperBin:      true,
}
