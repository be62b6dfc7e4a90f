package dimacs

import (
	_ "embed"
	"testing"

	"github.com/cdcl-labs/xsat/internal/sat"
	"github.com/google/go-cmp/cmp"
)

type instance struct {
	Variables  int
	Clauses    [][]sat.Literal
	XorClauses [][]int
	XorRhs     []bool
}

func (i *instance) AddVariable() int {
	i.Variables++
	return i.Variables - 1
}

func (i *instance) AddClause(tmpClause []sat.Literal) error {
	clause := make([]sat.Literal, len(tmpClause))
	copy(clause, tmpClause)
	i.Clauses = append(i.Clauses, clause)
	return nil
}

func (i *instance) AddXorClause(vars []int, rhs bool) error {
	v := make([]int, len(vars))
	copy(v, vars)
	i.XorClauses = append(i.XorClauses, v)
	i.XorRhs = append(i.XorRhs, rhs)
	return nil
}

var want = instance{
	Variables: 3,
	Clauses: [][]sat.Literal{
		{0, 2, 4},
		{0, 2, 5},
		{0, 3, 4},
		{1, 2, 4},
		{1, 3, 4},
		{1, 2, 5},
		{0, 3, 5},
		{1, 3, 5},
	},
}

func TestParseDIMACS_cnf(t *testing.T) {
	got := instance{}
	gotErr := LoadDIMACS("testdata/test_instance.cnf", false, &got)

	if gotErr != nil {
		t.Errorf("ParseDIMACS(): want no error, got %s", gotErr)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDIMACS(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestParseDIMACS_gzip(t *testing.T) {
	got := instance{}
	gotErr := LoadDIMACS("testdata/test_instance.cnf.gz", true, &got)

	if gotErr != nil {
		t.Errorf("ParseDIMACS(): want no error, got %s", gotErr)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDIMACS(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestParseDIMACS_xor(t *testing.T) {
	got := instance{}
	gotErr := LoadDIMACS("testdata/test_instance_xor.cnf", false, &got)

	if gotErr != nil {
		t.Fatalf("LoadDIMACS(): want no error, got %s", gotErr)
	}

	want := instance{
		Variables:  3,
		Clauses:    [][]sat.Literal{{0, 2}},
		XorClauses: [][]int{{0, 1, 2}, {0, 2}},
		XorRhs:     []bool{true, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadDIMACS(): mismatch (-want, +got):\n%s", diff)
	}
}

func TestParseDIMACS_noFile(t *testing.T) {
	got := instance{}
	gotErr := LoadDIMACS("", false, &got)

	if gotErr == nil {
		t.Errorf("ParseDIMACS(): want error, got none")
	}
}

func TestParseDIMACS_gzip_notGzipFile(t *testing.T) {
	got := instance{}
	gotErr := LoadDIMACS("testdata/test_instance.cnf", true, &got)

	if gotErr == nil {
		t.Errorf("ParseDIMACS(): want error, got none")
	}
}
