package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/config"
	"github.com/pranas/cucumber-e2e/logging"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "e2e"
	app.Usage = "Browser end-to-end tests for the login flow"
	app.Version = Version
	if GitCommit != "" {
		app.Version = fmt.Sprintf("%s-%s", Version, GitCommit)
	}
	app.Description = "Runs the Gherkin features under features/ against BASE_URL with playwright " +
		"and turns the results into HTML, JUnit and trace reports."
	app.Commands = []*cli.Command{
		{
			Name:      "run",
			Usage:     "Run feature files and generate reports",
			ArgsUsage: "[feature paths...]",
			Flags:     runFlags,
			Action:    runAction,
		},
		{
			Name:   "report",
			Usage:  "Generate HTML reports from cucumber JSON results",
			Flags:  []cli.Flag{ResultsFlag},
			Action: reportAction,
		},
		{
			Name:   "junit",
			Usage:  "Convert cucumber JSON results to JUnit XML",
			Flags:  []cli.Flag{ResultsFlag, OutputFlag},
			Action: junitAction,
		},
		{
			Name:  "traces",
			Usage: "Inspect recorded playwright traces",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List recorded traces, newest first",
					Action: tracesListAction,
				},
				{
					Name:      "show",
					Usage:     "Open a trace in the playwright trace viewer",
					ArgsUsage: "<number|file>",
					Action:    tracesShowAction,
				},
			},
		},
		{
			Name:   "serve",
			Usage:  "Serve the reports directory over HTTP",
			Flags:  []cli.Flag{AddrFlag, OpenFlag},
			Action: serveAction,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
			return
		}
		fmt.Fprintln(c.App.ErrWriter, err)
	}
	return app
}

// setup reads the environment and builds the logger every command uses.
func setup() (*config.Environment, *zap.Logger, error) {
	env, err := config.FromLookup(os.LookupEnv)
	if err != nil {
		return nil, nil, NewRuntimeError(fmt.Errorf("invalid configuration: %w", err))
	}
	log, err := logging.New(env.Debug, env.CI)
	if err != nil {
		return nil, nil, NewRuntimeError(fmt.Errorf("failed to create logger: %w", err))
	}
	return env, log, nil
}

func resultsPath(c *cli.Context, env *config.Environment) string {
	if p := c.String(ResultsFlag.Name); p != "" {
		return p
	}
	return env.ResultsFile()
}
