package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/report"
)

func reportAction(c *cli.Context) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out, err := report.Generate(log, report.Options{
		Results:    []string{resultsPath(c, env)},
		ReportsDir: env.ReportsDir,
		HTMLDir:    env.HTMLReportDir(),
		TracesDir:  env.TracesDir(),
		JUnitFile:  env.JUnitFile(),
		Artifacts:  env.Artifacts.Describe(),
	})
	if err != nil {
		return NewRuntimeError(err)
	}

	w := c.App.Writer
	fmt.Fprint(w, report.Table("E2E results", out.Summary))
	report.PrintFailures(w, out.Summary)
	for _, f := range out.Files {
		log.Info("wrote report", zap.String("path", f))
	}
	return nil
}

func junitAction(c *cli.Context) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	output := c.String(OutputFlag.Name)
	if output == "" {
		output = env.JUnitFile()
	}

	summary := report.Summarize(report.Load(log, resultsPath(c, env)))
	if err := report.WriteJUnit(output, "e2e", summary); err != nil {
		return NewRuntimeError(err)
	}
	log.Info("wrote junit report", zap.String("path", output), zap.Int("scenarios", summary.Total))
	return nil
}

