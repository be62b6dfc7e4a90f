package parsers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cdcl-labs/xsat/internal/sat"
)

// TestLoadDIMACS_PlainCNF exercises the external-dimacs-backed fast path
// (as opposed to internal/dimacs's hand-rolled, XOR-aware loader) against a
// plain CNF instance with a single model.
func TestLoadDIMACS_PlainCNF(t *testing.T) {
	s := sat.NewDefaultSolver()
	if err := LoadDIMACS("testdata/plain.cnf", false, s); err != nil {
		t.Fatalf("LoadDIMACS() error = %s", err)
	}

	want, err := ReadModels("testdata/plain.cnf.models")
	if err != nil {
		t.Fatalf("ReadModels() error = %s", err)
	}

	if got := s.Solve(); got != sat.True {
		t.Fatalf("Solve() = %s, want True", got)
	}
	got := s.Models

	if len(got) != len(want) {
		t.Fatalf("model count = %d, want %d", len(got), len(want))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("models mismatch (-want +got):\n%s", diff)
	}
}
