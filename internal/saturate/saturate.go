// Package saturate drives rewrite rules to a fixed point over an e-graph,
// grounded on slg_engine.go's fixpoint-over-a-worklist loop
// (there, newly derived answers; here, newly discovered rewrites), bounded
// by a handful of configurable resource caps.
package saturate

import (
	"errors"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/pattern"
	"github.com/sdql-eqsat/eqsat/internal/rule"
)

// StopReason names why a run of Driver.Run ended.
type StopReason int

const (
	// Saturated means a full iteration found no new matches to apply.
	Saturated StopReason = iota
	// IterationCap means MaxIterations iterations ran without saturating.
	IterationCap
	// NodeCap means the e-graph's node count exceeded MaxNodes.
	NodeCap
	// TimeCap means MaxSeconds of wall-clock elapsed.
	TimeCap
	// MemoryCap means resident memory exceeded MemoryCapMiB.
	MemoryCap
	// Aborted means the caller's cancellation hook requested a stop.
	Aborted
)

func (r StopReason) String() string {
	switch r {
	case Saturated:
		return "saturated"
	case IterationCap:
		return "iteration cap"
	case NodeCap:
		return "node cap"
	case TimeCap:
		return "time cap"
	case MemoryCap:
		return "memory cap"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ErrAborted names a cancellation-hook stop as an error. Run does not return
// it; Run reports that stop as Result.Reason Aborted.
var ErrAborted = errors.New("saturate: aborted by cancellation hook")

// CancelFunc is polled once per iteration boundary; returning true aborts
// the run with StopReason Aborted.
type CancelFunc func() bool

// Params bounds a run. A zero value for any cap disables that cap, except
// MaxIterations which is always enforced (see Driver.Run's default).
type Params struct {
	MaxIterations int
	MaxNodes      int
	MaxSeconds    float64
	MemoryCapMiB  int64
	Cancel        CancelFunc

	// Root, when non-nil, restricts matching to classes reachable from
	// *Root (recomputed each iteration as the e-graph grows) — the
	// "individual" driving mode, matching rules only against the root
	// expression's own e-graph rather than every live class.
	Root *int
}

// IterationStat is the per-iteration log payload: how many rules fired and
// the e-graph's size after the iteration's rebuild.
type IterationStat struct {
	Iteration int
	Fired     int
	Stats     egraph.Stats
	Elapsed   time.Duration
}

// Result summarizes a completed run.
type Result struct {
	Reason     StopReason
	Iterations int
	FireCounts map[string]int
	History    []IterationStat
}

// Driver applies a fixed rule set to an e-graph until saturation or a cap
// is hit. Single-threaded and deterministic: rules fire in the order given.
type Driver struct {
	eg     *egraph.EGraph
	rules  []rule.Rule
	logger hclog.Logger
}

// New returns a driver over eg applying rules in order. A nil logger is
// replaced with a no-op one.
func New(eg *egraph.EGraph, rules []rule.Rule, logger hclog.Logger) *Driver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Driver{eg: eg, rules: rules, logger: logger.Named("saturate")}
}

func readRSSBytes() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Sys)
}

// Run iterates the rule set to a fixed point or until a Params cap fires.
// On every iteration it: matches every rule against every live class,
// applies each match's Applier (guard permitting), unions the result with
// the matched class, and rebuilds congruence.
func (d *Driver) Run(p Params) Result {
	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = 1 << 30
	}

	start := time.Now()
	fireCounts := make(map[string]int, len(d.rules))
	var history []IterationStat

	for iter := 1; iter <= maxIter; iter++ {
		if p.Cancel != nil && p.Cancel() {
			return Result{Reason: Aborted, Iterations: iter - 1, FireCounts: fireCounts, History: history}
		}
		if p.MaxSeconds > 0 && time.Since(start).Seconds() > p.MaxSeconds {
			return Result{Reason: TimeCap, Iterations: iter - 1, FireCounts: fireCounts, History: history}
		}
		if p.MemoryCapMiB > 0 && readRSSBytes() > p.MemoryCapMiB*1024*1024 {
			return Result{Reason: MemoryCap, Iterations: iter - 1, FireCounts: fireCounts, History: history}
		}
		if p.MaxNodes > 0 && d.eg.Stats().Nodes > p.MaxNodes {
			return Result{Reason: NodeCap, Iterations: iter - 1, FireCounts: fireCounts, History: history}
		}

		iterStart := time.Now()
		fired := d.applyOnce(fireCounts, p.Root)
		d.eg.Rebuild()

		stats := d.eg.Stats()
		elapsed := time.Since(iterStart)
		history = append(history, IterationStat{Iteration: iter, Fired: fired, Stats: stats, Elapsed: elapsed})
		d.logger.Debug("iteration complete",
			"iteration", iter, "fired", fired, "nodes", stats.Nodes, "classes", stats.Classes,
			"elapsed", elapsed)

		if p.MaxNodes > 0 && stats.Nodes > p.MaxNodes {
			return Result{Reason: NodeCap, Iterations: iter, FireCounts: fireCounts, History: history}
		}
		if fired == 0 {
			return Result{Reason: Saturated, Iterations: iter, FireCounts: fireCounts, History: history}
		}
	}
	return Result{Reason: IterationCap, Iterations: maxIter, FireCounts: fireCounts, History: history}
}

// applyOnce runs every rule against every current class once, returning
// the total number of matches actually applied (guard admitted and the
// applier succeeded). Rules run in the order given; each rule's matches
// are collected against the classes as they stand when that rule starts,
// so a rule sees the unions made by earlier rules in the same iteration.
func (d *Driver) applyOnce(fireCounts map[string]int, root *int) int {
	fired := 0
	for _, r := range d.rules {
		classes := d.eg.Classes()
		if root != nil {
			classes = d.eg.Reachable(*root)
		}
		for _, class := range classes {
			for _, subst := range pattern.Match(r.LHS, d.eg, class) {
				if r.Guard != nil && !r.Guard(subst, d.eg) {
					continue
				}
				rhs, ok := r.Apply(d.eg, subst)
				if !ok {
					continue
				}
				if _, changed := d.eg.Union(class, rhs); changed {
					fired++
					fireCounts[r.Name]++
				}
			}
		}
	}
	return fired
}
