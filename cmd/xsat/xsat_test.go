package main

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cdcl-labs/xsat/internal/dimacs"
	"github.com/cdcl-labs/xsat/internal/sat"
)

// This test suite verifies that the solver finds the exact set of models
// for every instance under testdataDir, including the XOR-extended DIMACS
// lines this module adds on top of plain CNF (spec.md §6).
//
// Each test case is a pair of files: an instance with the ".cnf" extension,
// and its expected models with the ".cnf.models" extension -- one model per
// line, using the same literal convention as the instance file.
var testdataDir = "testdata"

type testCase struct {
	instanceName string
	instanceFile string
	modelsFile   string
}

func listTestCases(dir string) ([]testCase, error) {
	var testCases []testCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".cnf") {
			return nil
		}
		testCases = append(testCases, testCase{
			instanceName: d.Name(),
			instanceFile: path,
			modelsFile:   path + ".models",
		})
		return nil
	})
	return testCases, err
}

func toString(model []bool) string {
	s := make([]byte, 0, len(model))
	for _, b := range model {
		if b {
			s = append(s, 1)
		} else {
			s = append(s, 0)
		}
	}
	return string(s)
}

func toSet(s [][]bool) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range s {
		set[toString(m)] = struct{}{}
	}
	return set
}

// solveAll finds every model of s by repeatedly solving and forbidding the
// last model found (negating the conjunction of its literals).
func solveAll(s *sat.Solver) [][]bool {
	for s.Solve() == sat.True {
		model := s.Models[len(s.Models)-1]
		blocking := make([]sat.Literal, len(model))
		for i, b := range model {
			if b {
				blocking[i] = sat.NegativeLiteral(i)
			} else {
				blocking[i] = sat.PositiveLiteral(i)
			}
		}
		s.AddClause(blocking)
	}
	return s.Models
}

func TestSolveAll(t *testing.T) {
	testCases, err := listTestCases(testdataDir)
	if err != nil {
		t.Fatalf("listTestCases() error = %s", err)
	}
	if len(testCases) == 0 {
		t.Fatal("no test cases found under testdata")
	}

	for i := 0; i < len(testCases); i++ {
		tc := testCases[i]
		t.Run(tc.instanceName, func(t *testing.T) {
			t.Parallel()

			want, err := dimacs.ParseModels(tc.modelsFile)
			if err != nil {
				t.Fatalf("ParseModels() error = %s", err)
			}

			s := sat.NewDefaultSolver()
			if err := dimacs.LoadDIMACS(tc.instanceFile, false, s); err != nil {
				t.Fatalf("LoadDIMACS() error = %s", err)
			}

			got := solveAll(s)

			if len(got) != len(want) {
				t.Errorf("model count = %d, want %d", len(got), len(want))
			}
			if diff := cmp.Diff(toSet(want), toSet(got)); diff != "" {
				t.Errorf("models mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
