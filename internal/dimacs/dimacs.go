package dimacs

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cdcl-labs/xsat/internal/sat"
)

// dimacsWritter is the subset of *sat.Solver that LoadDIMACS needs to build
// an instance. It is kept as a narrow interface (rather than depending on
// *sat.Solver directly) so that tests can instantiate against a lightweight
// fake.
type dimacsWritter interface {
	AddVariable() int
	AddClause([]sat.Literal) error
	AddXorClause(vars []int, rhs bool) error
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses a DIMACS CNF file, extended with `x`-prefixed XOR lines
// (spec.md §6: "`x` prefix denotes XOR line with optional leading `-` on
// first token indicating rhs=false"), and loads it into dw. This is the
// solver-facing loader; parsers.LoadDIMACS wraps the external
// github.com/rhartert/dimacs library instead and is used for plain-CNF
// model-comparison tests that don't need XOR support.
func LoadDIMACS(filename string, gzipped bool, dw dimacsWritter) error {
	reader, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)

	// Parse header and variables
	// --------------------------

	nVars := 0
	nClauses := 0

	for {
		if !scanner.Scan() {
			return fmt.Errorf("header line not found")
		}
		line := scanner.Text()
		if line == "" || line[0] == 'c' {
			continue
		}
		parts := strings.Fields(line)
		if parts[1] != "cnf" {
			return fmt.Errorf("instance of type %q are not supported", parts[1])
		}
		nVars, err = strconv.Atoi(parts[2])
		if err != nil {
			return fmt.Errorf("could not parse header: %w", err)
		}
		nClauses, err = strconv.Atoi(parts[3])
		if err != nil {
			return fmt.Errorf("could not parse header: %w", err)
		}

		break
	}

	for range nVars {
		dw.AddVariable()
	}

	// Parse clauses and XOR lines
	// ---------------------------

	litBuffer := make([]sat.Literal, 0, 32)
	for nClauses > 0 && scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == 'c' {
			continue
		}

		if line[0] == 'x' {
			if err := loadXorLine(line, dw); err != nil {
				return err
			}
			nClauses--
			continue
		}

		litBuffer = litBuffer[:0] // reset
		parts := strings.Fields(line)
		for _, p := range parts {
			l, err := strconv.Atoi(p)
			if err != nil {
				return err
			}
			switch {
			case l < 0:
				litBuffer = append(litBuffer, sat.NegativeLiteral(-l-1))
			case l > 0:
				litBuffer = append(litBuffer, sat.PositiveLiteral(l-1))
			default:
				// drop 0
			}
		}

		if err := dw.AddClause(litBuffer); err != nil {
			return err
		}
		nClauses--
	}

	return nil
}

// loadXorLine parses one `x`-prefixed DIMACS-XOR line. The token immediately
// after the `x` marker may carry a leading `-`, which flips the clause's
// rhs from true to false; every other token is the bare (unsigned) id of a
// variable participating in the parity constraint.
func loadXorLine(line string, dw dimacsWritter) error {
	body := strings.TrimPrefix(strings.TrimSpace(line), "x")
	parts := strings.Fields(body)

	vars := make([]int, 0, len(parts))
	rhs := true
	for i, p := range parts {
		l, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("could not parse xor line %q: %w", line, err)
		}
		if l == 0 {
			break
		}
		if i == 0 && l < 0 {
			rhs = false
		}
		v := l
		if v < 0 {
			v = -v
		}
		vars = append(vars, v-1)
	}

	return dw.AddXorClause(vars, rhs)
}
