package main

import (
	"github.com/urfave/cli/v2"
)

var (
	TagsFlag = &cli.StringFlag{
		Name:    "tags",
		Usage:   "Tag expression selecting scenarios (eg. '@smoke and not @unsupported')",
		EnvVars: []string{"TAGS"},
	}
	ParallelFlag = &cli.IntFlag{
		Name:    "parallel",
		Usage:   "Number of scenarios run at the same time",
		EnvVars: []string{"PARALLEL"},
	}
	SeedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Seed for the scenario order, 0 picks one",
	}
	OrderedFlag = &cli.BoolFlag{
		Name:  "ordered",
		Usage: "Run scenarios in the order they are defined instead of randomly",
	}
	FailFastFlag = &cli.BoolFlag{
		Name:  "fail-fast",
		Usage: "Stop after the first failed scenario",
	}
	DryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Match steps without running them",
	}
	StrictFlag = &cli.BoolFlag{
		Name:  "strict",
		Usage: "Fail on pending and undefined steps",
	}
	ResultsFlag = &cli.StringFlag{
		Name:  "results",
		Usage: "Cucumber JSON results file (default $RESULTS_DIR/cucumber-report.json)",
	}
	MetricsAddrFlag = &cli.StringFlag{
		Name:    "metrics.addr",
		Usage:   "Serve prometheus metrics on this address while the run lasts (eg. ':9090')",
		EnvVars: []string{"METRICS_ADDR"},
	}
	InstallFlag = &cli.BoolFlag{
		Name:    "install",
		Usage:   "Install the playwright browsers before running",
		EnvVars: []string{"PLAYWRIGHT_INSTALL"},
	}
	NoReportFlag = &cli.BoolFlag{
		Name:  "no-report",
		Usage: "Do not generate HTML and JUnit reports after the run",
	}
	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file (default $RESULTS_DIR/junit.xml)",
	}
	AddrFlag = &cli.StringFlag{
		Name:  "addr",
		Value: "127.0.0.1:9323",
		Usage: "Address to serve the reports on",
	}
	OpenFlag = &cli.BoolFlag{
		Name:  "open",
		Usage: "Open the report in the default browser",
	}
)

var runFlags = []cli.Flag{
	TagsFlag,
	ParallelFlag,
	SeedFlag,
	OrderedFlag,
	FailFastFlag,
	DryRunFlag,
	StrictFlag,
	ResultsFlag,
	MetricsAddrFlag,
	InstallFlag,
	NoReportFlag,
}
