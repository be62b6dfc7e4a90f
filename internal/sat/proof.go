package sat

import (
	"bufio"
	"fmt"
	"os"
)

// proofWriter emits a DRAT-compatible textual resolution trace: one line per
// clause addition or deletion, each literal written as a signed DIMACS
// integer, terminated by "0". Deletions are prefixed with "d" per the
// standard DRAT convention.
//
// This is a deliberately simplified stand-in for the original's FRAT format
// (original_source/src/frat.h), which tags every line with a clause ID and a
// richer set of FratFlag kinds (origcl, add, del, findelay, reloc,
// unsatcore, ...) to support incremental and core-extraction tooling.
// SPEC_FULL.md §6 scopes proof emission down to plain DRAT text, so only the
// add/delete distinction is kept; clause IDs and the other flags have no
// consumer here and are not reproduced.
type proofWriter struct {
	f *os.File
	w *bufio.Writer
}

// newProofWriter opens path for writing and returns a proofWriter. Writes
// are buffered; Close must be called to flush and release the file.
func newProofWriter(path string) (*proofWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &proofWriter{f: f, w: bufio.NewWriter(f)}, nil
}

func (pw *proofWriter) writeLits(prefix string, lits []Literal) {
	if prefix != "" {
		pw.w.WriteString(prefix)
		pw.w.WriteByte(' ')
	}
	for _, l := range lits {
		fmt.Fprintf(pw.w, "%d ", l.DimacsInt())
	}
	pw.w.WriteString("0\n")
}

func (pw *proofWriter) close() error {
	if err := pw.w.Flush(); err != nil {
		pw.f.Close()
		return err
	}
	return pw.f.Close()
}

// emitAddition records that lits was added to the clause database, either as
// a new learnt/original clause or as the strengthened/resolvent result of
// inprocessing. A no-op if no proof file was configured.
func (s *Solver) emitAddition(lits []Literal) {
	if s.proof == nil {
		return
	}
	s.proof.writeLits("a", lits)
}

// emitDeletion records that lits is no longer part of the clause database.
// A no-op if no proof file was configured.
func (s *Solver) emitDeletion(lits []Literal) {
	if s.proof == nil {
		return
	}
	s.proof.writeLits("d", lits)
}

// Close flushes and closes the solver's proof file, if one was configured
// via Config.ProofFile. Safe to call more than once, and safe to call when
// no proof file was configured.
func (s *Solver) Close() error {
	if s.proof == nil {
		return nil
	}
	err := s.proof.close()
	s.proof = nil
	return err
}
