package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/go-hclog"

	"github.com/sdql-eqsat/eqsat/internal/config"
	"github.com/sdql-eqsat/eqsat/internal/egraph"
	"github.com/sdql-eqsat/eqsat/internal/extract"
	"github.com/sdql-eqsat/eqsat/internal/rule"
	"github.com/sdql-eqsat/eqsat/internal/rules"
	"github.com/sdql-eqsat/eqsat/internal/saturate"
	"github.com/sdql-eqsat/eqsat/internal/scope"
	"github.com/sdql-eqsat/eqsat/internal/sexpr"
)

// runFlags collects the flags optimize and explain share.
type runFlags struct {
	mode         string
	ruleSet      string
	configPath   string
	maxIter      int
	maxNodes     int
	maxSeconds   float64
	memoryCapMiB int64
}

// pipelineResult carries everything the CLI's output path needs, whichever
// subcommand is printing it.
type pipelineResult struct {
	OutPath string
	Sat     saturate.Result
	Extract extract.Result
}

func ruleSetFor(cfg config.Driver) []rule.Rule {
	if cfg.Rules == config.Coarse {
		return rules.Coarse()
	}
	return rules.Fine()
}

// runPipeline reads name+".sdql", translates it, saturates, extracts, and
// writes name+".out.sdql" — the shared body of "eqsat optimize" and
// "eqsat explain".
func runPipeline(logger hclog.Logger, name string, flags runFlags) (pipelineResult, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return pipelineResult{}, err
		}
		cfg = loaded
	}
	var rs config.RuleSet
	switch flags.ruleSet {
	case "coarse":
		rs = config.Coarse
	case "fine":
		rs = config.Fine
	}
	cfg.ApplyFlags(flags.maxIter, flags.maxNodes, flags.maxSeconds, flags.memoryCapMiB, rs)

	inPath := name + ".sdql"
	src, err := os.ReadFile(inPath)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("eqsat: read %s: %w", inPath, err)
	}

	named, err := sexpr.Parse(src)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("eqsat: parse %s: %w", inPath, err)
	}

	nameless, err := scope.ToNameless(named)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("eqsat: translate %s: %w", inPath, err)
	}

	eg := egraph.New(logger)
	root := eg.AddExpr(nameless)

	driver := saturate.New(eg, ruleSetFor(cfg), logger)
	params := saturate.Params{
		MaxIterations: cfg.MaxIterations,
		MaxNodes:      cfg.MaxNodes,
		MaxSeconds:    cfg.MaxSeconds,
		MemoryCapMiB:  cfg.MemoryCapMiB,
	}
	if flags.mode == "individual" {
		r := eg.Find(root)
		params.Root = &r
	}
	satResult := driver.Run(params)

	ex := extract.New(eg, logger)
	if satResult.Reason != saturate.Saturated {
		logger.Warn("run stopped before saturation", "reason", satResult.Reason.String())
	}
	exResult := ex.Extract(eg.Find(root))
	if exResult.InfClasses > 0 {
		logger.Warn("extraction left classes at infinite cost",
			"inf_classes", exResult.InfClasses)
	}

	outNamed := scope.ToNamed(exResult.Term)
	outPath := name + ".out.sdql"
	if err := os.WriteFile(outPath, sexpr.Write(outNamed), 0o644); err != nil {
		return pipelineResult{}, fmt.Errorf("eqsat: write %s: %w", outPath, err)
	}

	return pipelineResult{OutPath: outPath, Sat: satResult, Extract: exResult}, nil
}

// printSummary prints one line covering the shape of the run: iteration
// count, total nodes, classes, whether the e-graph saturated, peak
// resident memory, and the extracted term's cost.
func printSummary(res pipelineResult) {
	stats := egraph.Stats{}
	if len(res.Sat.History) > 0 {
		stats = res.Sat.History[len(res.Sat.History)-1].Stats
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("iterations=%d nodes=%d classes=%d saturated=%t peak_rss_mib=%d cost=%d\n",
		res.Sat.Iterations, stats.Nodes, stats.Classes,
		res.Sat.Reason == saturate.Saturated, m.Sys/(1024*1024), res.Extract.Cost)
}

func logLevelFromEnv(flag string) hclog.Level {
	level := flag
	if level == "" {
		level = os.Getenv("EQSAT_LOG_LEVEL")
	}
	if level == "" {
		return hclog.Warn
	}
	return hclog.LevelFromString(level)
}
