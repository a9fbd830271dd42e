// Package smt implements the optional SMT-solver collaborator used by
// pkg/fold to prune provably-unreachable branch guards (spec §4.D, §9). The
// solver is an external child process spoken to over stdin/stdout; its
// absence is never fatal (spec: "solver absence is never fatal").
package smt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Config holds the generator's --smt-* flags (spec §6).
type Config struct {
	Path        string
	Args        []string
	Prelude     string
	Logic       string
	Bitvectors  bool
}

// Solver wraps a (possibly absent) SMT solver process. A Solver with no Path
// configured is valid and always answers "do not prune", matching the
// spec's "solver absence is never fatal" requirement.
type Solver struct {
	cfg Config
	mu  sync.Mutex
	// cache memoizes identical guard queries within this generator run
	// (SPEC_FULL.md's [SMT-CACHE], grounded on original_source's
	// SMTSimplifier): a guard appearing in multiple expanded ruleset
	// instances is only ever sent to the solver once.
	cache map[string]bool
}

// New constructs a Solver for cfg. If cfg.Path is empty, the returned
// Solver's IsUnsat always returns false without spawning anything.
func New(cfg Config) *Solver {
	return &Solver{cfg: cfg, cache: make(map[string]bool)}
}

// Available reports whether a solver executable was configured.
func (s *Solver) Available() bool { return s.cfg.Path != "" }

// IsUnsat asks whether query (a canonical Lisp-like assertion string) is
// unsatisfiable, invoking the solver at most once per distinct query across
// this Solver's lifetime. Any error, timeout, or a reply other than "unsat"
// is treated as "do not prune" per spec §4.D.
func (s *Solver) IsUnsat(query string) bool {
	if !s.Available() {
		return false
	}
	s.mu.Lock()
	if v, ok := s.cache[query]; ok {
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	result := s.query(query)

	s.mu.Lock()
	s.cache[query] = result
	s.mu.Unlock()
	return result
}

func (s *Solver) query(query string) bool {
	cmd := exec.Command(s.cfg.Path, s.cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.WithError(err).Debug("smt: failed to open solver stdin")
		return false
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.WithError(err).Debug("smt: failed to open solver stdout")
		return false
	}
	if err := cmd.Start(); err != nil {
		log.WithError(err).Debug("smt: solver not available")
		return false
	}
	defer func() { _ = cmd.Wait() }()

	var script bytes.Buffer
	logic := s.cfg.Logic
	switch {
	case logic != "":
		fmt.Fprintf(&script, "(set-logic %s)\n", logic)
	case s.cfg.Bitvectors:
		fmt.Fprintln(&script, "(set-logic AUFBV)")
	default:
		fmt.Fprintln(&script, "(set-logic AUFLIA)")
	}
	if s.cfg.Prelude != "" {
		script.WriteString(s.cfg.Prelude)
		script.WriteByte('\n')
	}
	fmt.Fprintf(&script, "(assert %s)\n(check-sat)\n", query)

	if _, err := io.Copy(stdin, &script); err != nil {
		log.WithError(err).Debug("smt: failed writing query")
		_ = stdin.Close()
		return false
	}
	_ = stdin.Close()

	line, _ := bufio.NewReader(stdout).ReadString('\n')
	return strings.TrimSpace(line) == "unsat"
}
