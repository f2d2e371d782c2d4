package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	cucumber "github.com/pranas/cucumber-e2e"
	"github.com/pranas/cucumber-e2e/metrics"
	"github.com/pranas/cucumber-e2e/report"
	"github.com/pranas/cucumber-e2e/steps"
	"github.com/pranas/cucumber-e2e/world"
)

func runAction(c *cli.Context) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if c.IsSet(TagsFlag.Name) {
		env.Tags = c.String(TagsFlag.Name)
	}
	if c.IsSet(ParallelFlag.Name) && c.Int(ParallelFlag.Name) > 0 {
		env.Parallel = c.Int(ParallelFlag.Name)
	}
	results := resultsPath(c, env)

	log.Info("starting run",
		zap.String("browser", string(env.Browser)),
		zap.Bool("headless", env.Headless),
		zap.String("baseURL", env.BaseURL),
		zap.Int("parallel", env.Parallel),
		zap.String("tags", env.Tags),
		zap.String("artifacts", env.Artifacts.Describe()))
	if env.Retries > 0 {
		log.Warn("retries are not supported by the runner, every scenario runs once", zap.Int("retries", env.Retries))
	}
	if env.MCPEnabled {
		log.Warn("MCP integration is not available, ignoring MCP_ENABLED", zap.String("config", env.MCPConfig))
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	if addr := c.String(MetricsAddrFlag.Name); addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, log); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	launcher, err := world.StartPlaywright(c.Bool(InstallFlag.Name))
	if err != nil {
		return NewRuntimeError(err)
	}
	defer func() {
		if err := launcher.Stop(); err != nil {
			log.Warn("could not stop playwright", zap.Error(err))
		}
	}()

	jsonReport := cucumber.NewJSONFormatter(results)
	formatters := []cucumber.Formatter{cucumber.NewDotFormatter(os.Stdout), jsonReport}
	if env.Debug {
		formatters = append(formatters, cucumber.NewDebugFormatter())
	}
	cfg := cucumber.Config{
		Name:          "e2e",
		Seed:          c.Uint64(SeedFlag.Name),
		Concurrency:   uint64(env.Parallel),
		FailFast:      c.Bool(FailFastFlag.Name),
		DryRun:        c.Bool(DryRunFlag.Name),
		Strict:        c.Bool(StrictFlag.Name),
		TagExpression: env.Tags,
		Formatter:     cucumber.NewMultiFormatter(formatters...),
		Paths:         c.Args().Slice(),
	}
	if c.Bool(OrderedFlag.Name) {
		cfg.Order = cucumber.OrderDefinition
	}

	suite, err := cucumber.NewSuite[*world.World](cfg)
	if err != nil {
		return NewRuntimeError(fmt.Errorf("failed to load features: %w", err))
	}
	if len(suite.Files()) == 0 {
		return NewRuntimeError(fmt.Errorf("no feature files found in %v", cfg.Paths))
	}
	steps.Register(suite, env, launcher, log)

	log.Debug("running features", zap.Strings("files", suite.Files()), zap.String("runID", jsonReport.RunID()))
	summary := suite.Run()
	log.Info("run finished", zap.Stringer("summary", summary), zap.String("results", results))

	if !c.Bool(NoReportFlag.Name) {
		out, err := report.Generate(log, report.Options{
			Results:    []string{results},
			ReportsDir: env.ReportsDir,
			HTMLDir:    env.HTMLReportDir(),
			TracesDir:  env.TracesDir(),
			JUnitFile:  env.JUnitFile(),
			Artifacts:  env.Artifacts.Describe(),
			RunID:      jsonReport.RunID(),
		})
		if err != nil {
			log.Warn("some reports could not be written", zap.Error(err))
		}
		fmt.Fprint(os.Stdout, report.Table("E2E results", out.Summary))
	}

	if summary.ExitCode != 0 {
		return NewTestFailureError(summary.String())
	}
	return nil
}
