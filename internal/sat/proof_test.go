package sat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProofWriter_WritesAdditionsAndDeletions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.drat")
	pw, err := newProofWriter(path)
	if err != nil {
		t.Fatalf("newProofWriter() error = %v", err)
	}

	pw.writeLits("a", []Literal{PositiveLiteral(0), NegativeLiteral(1)})
	pw.writeLits("d", []Literal{PositiveLiteral(0)})

	if err := pw.close(); err != nil {
		t.Fatalf("close() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "a 1 -2 0\nd 1 0\n"
	if string(got) != want {
		t.Errorf("proof contents = %q, want %q", string(got), want)
	}
}

func TestSolver_EmitAdditionAndDeletionAreNoOpsWithoutProofFile(t *testing.T) {
	s := newTestSolver()
	s.AddVariables(1)

	// No Config.ProofFile was set, so s.proof is nil; these must not panic.
	s.emitAddition([]Literal{PositiveLiteral(0)})
	s.emitDeletion([]Literal{PositiveLiteral(0)})

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
	// Calling Close twice must also be safe.
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
}

func TestSolver_ProofFileRecordsClauseAdditions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solve.drat")
	cfg := DefaultConfig
	cfg.ProofFile = path
	s := NewSolver(cfg)
	s.AddVariables(2)

	if err := s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)}); err != nil {
		t.Fatalf("AddClause() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got) == 0 {
		t.Errorf("proof file is empty, want the added clause recorded")
	}
}
