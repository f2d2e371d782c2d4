package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/report"
)

func tracesListAction(c *cli.Context) error {
	env, _, err := setup()
	if err != nil {
		return err
	}
	traces, err := report.ListTraces(env.TracesDir())
	if err != nil {
		return NewRuntimeError(err)
	}

	w := c.App.Writer
	if len(traces) == 0 {
		fmt.Fprintf(w, "No traces in %s\n", env.TracesDir())
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Trace", "Recorded", "Size"})
	for _, tr := range traces {
		t.AppendRow(table.Row{tr.Index, tr.Name, tr.ModTime.Format("2006-01-02 15:04:05"), tr.SizeText()})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Fprintln(w, "Open one with: e2e traces show <#>")
	return nil
}

func tracesShowAction(c *cli.Context) error {
	env, log, err := setup()
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return NewRuntimeError(errors.New("usage: e2e traces show <number|file>"))
	}

	traces, err := report.ListTraces(env.TracesDir())
	if err != nil {
		return NewRuntimeError(err)
	}
	tr, err := report.FindTrace(traces, c.Args().First())
	if err != nil {
		return NewRuntimeError(err)
	}

	driver, err := playwright.NewDriver(&playwright.RunOptions{})
	if err != nil {
		return NewRuntimeError(fmt.Errorf("could not find the playwright driver: %w", err))
	}

	log.Info("opening trace viewer", zap.String("trace", tr.Path))
	cmd := driver.Command("show-trace", tr.Path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return NewRuntimeError(fmt.Errorf("trace viewer: %w", err))
	}
	return nil
}
