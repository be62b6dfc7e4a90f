// Command xsat reads a DIMACS CNF/XOR instance, solves it, and reports the
// result on stdout using the exit codes of spec.md §6's reference CLI:
// 10 = SAT, 20 = UNSAT, 0 = UNKNOWN/interrupt, nonzero otherwise for usage
// errors.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/cdcl-labs/xsat/internal/dimacs"
	"github.com/cdcl-labs/xsat/internal/sat"
)

var (
	flagCPUProfile  = flag.Bool("cpuprof", false, "save pprof CPU profile in cpuprof")
	flagMemProfile  = flag.Bool("memprof", false, "save pprof memory profile in memprof")
	flagGzip        = flag.Bool("gzip", false, "treat the instance file as gzip-compressed")
	flagVerbosity   = flag.Int("verbosity", 0, "search progress verbosity")
	flagConflLimit  = flag.Int64("confl-limit", -1, "abort with UNKNOWN after this many conflicts (-1 = unlimited)")
	flagTimeout     = flag.Duration("timeout", -1, "abort with UNKNOWN after this wall-clock duration (-1 = unlimited)")
	flagNoProbing   = flag.Bool("no-probing", false, "disable failed-literal probing")
	flagNoElim      = flag.Bool("no-elim", false, "disable subsumption and variable elimination")
	flagNoXor       = flag.Bool("no-xor", false, "disable XOR finding and conglomeration")
	flagNoGauss     = flag.Bool("no-gauss", false, "disable Gaussian elimination")
	flagNoHyperBin  = flag.Bool("no-hyper-bin", false, "disable hyper-binary resolution during probing")
	flagStaticRes   = flag.Bool("static-restarts", false, "use the static Luby restart schedule instead of the dynamic glue-based one")
	flagProofFile   = flag.String("proof", "", "write a DRAT-compatible proof trace to this file")
	flagPrintModel  = flag.Bool("model", false, "print the satisfying model on one 'v' line, terminated by 0")
)

type config struct {
	instanceFile string
	memProfile   bool
	cpuProfile   bool
	solverConfig sat.Config
}

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}

	sc := sat.DefaultConfig
	sc.Verbosity = *flagVerbosity
	sc.ConflictLimit = *flagConflLimit
	sc.Timeout = *flagTimeout
	sc.EnableProbing = !*flagNoProbing
	sc.EnableElim = !*flagNoElim
	sc.EnableXor = !*flagNoXor
	sc.EnableGauss = !*flagNoGauss
	sc.HyperBin = !*flagNoHyperBin
	sc.ProofFile = *flagProofFile
	if *flagStaticRes {
		sc.RestartType = sat.RestartStatic
	}

	return &config{
		instanceFile: flag.Arg(0),
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		solverConfig: sc,
	}, nil
}

// run loads the instance, solves it, and returns the solver's LBool status
// together with any error encountered before solving started.
func run(cfg *config) (sat.LBool, *sat.Solver, error) {
	s := sat.NewSolver(cfg.solverConfig)
	defer s.Close()

	if err := dimacs.LoadDIMACS(cfg.instanceFile, *flagGzip || strings.HasSuffix(cfg.instanceFile, ".gz"), s); err != nil {
		return sat.Unknown, nil, fmt.Errorf("could not parse instance: %s", err)
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		if _, ok := <-interrupts; ok {
			s.Interrupt()
		}
	}()
	defer signal.Stop(interrupts)

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c constraints: %d\n", s.NumConstraints())

	t := time.Now()
	status := s.Solve()
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c status:     %s\n", status.String())

	return status, s, nil
}

func printModel(s *sat.Solver) {
	if len(s.Models) == 0 {
		return
	}
	model := s.Models[len(s.Models)-1]
	var b strings.Builder
	for v, val := range model {
		if val {
			fmt.Fprintf(&b, "%d ", v+1)
		} else {
			fmt.Fprintf(&b, "%d ", -(v + 1))
		}
	}
	b.WriteString("0")
	fmt.Println("v " + b.String())
}

func exitCode(status sat.LBool) int {
	switch status {
	case sat.True:
		return 10
	case sat.False:
		return 20
	default:
		return 0
	}
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	status, s, err := run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	if *flagPrintModel && status == sat.True {
		printModel(s)
	}

	os.Exit(exitCode(status))
}
