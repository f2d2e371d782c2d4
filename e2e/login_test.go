//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	cucumber "github.com/pranas/cucumber-e2e"
	"github.com/pranas/cucumber-e2e/config"
	"github.com/pranas/cucumber-e2e/fixtures"
	"github.com/pranas/cucumber-e2e/report"
	"github.com/pranas/cucumber-e2e/steps"
	"github.com/pranas/cucumber-e2e/world"
)

func environment(t *testing.T) *config.Environment {
	t.Helper()
	env, err := config.FromLookup(func(key string) (string, bool) {
		if key == "REPORTS_DIR" {
			return t.TempDir(), true
		}
		return os.LookupEnv(key)
	})
	require.NoError(t, err)
	return env
}

func newWorld(t *testing.T, name string) *world.World {
	t.Helper()
	w := world.New(environment(t), launcher, zaptest.NewLogger(t), name)
	require.NoError(t, w.Init())
	t.Cleanup(func() {
		assert.NoError(t, w.Cleanup(context.Background(), nil, t.Failed()))
	})
	return w
}

func TestValidLoginReachesSecureArea(t *testing.T) {
	w := newWorld(t, t.Name())
	creds, err := fixtures.Lookup("valid")
	require.NoError(t, err)

	require.NoError(t, w.Login.NavigateToLogin())
	require.NoError(t, w.Login.Login(creds.Username, creds.Password))

	assert.Contains(t, w.Dashboard.CurrentURL(), "secure")
	assert.True(t, w.Dashboard.IsDashboardVisible())
}

func TestInvalidLoginStaysOnLoginPage(t *testing.T) {
	w := newWorld(t, t.Name())
	creds, err := fixtures.Lookup("empty")
	require.NoError(t, err)

	require.NoError(t, w.Login.NavigateToLogin())
	require.NoError(t, w.Login.Login(creds.Username, creds.Password))

	assert.Contains(t, w.Login.CurrentURL(), "login")
	assert.NotEmpty(t, w.Login.GetErrorMessage())
}

func TestSmokeFeatures(t *testing.T) {
	env := environment(t)
	results := filepath.Join(t.TempDir(), "cucumber-report.json")

	suite, err := cucumber.NewSuite[*world.World](cucumber.Config{
		Concurrency:   1,
		Order:         cucumber.OrderDefinition,
		TagExpression: "@smoke",
		Formatter:     cucumber.NewMultiFormatter(cucumber.NewNopFormatter(), cucumber.NewJSONFormatter(results)),
		Paths:         []string{filepath.Join("..", "features")},
	})
	require.NoError(t, err)
	steps.Register(suite, env, launcher, zaptest.NewLogger(t))

	summary := suite.Run()
	require.True(t, summary.Success, summary.String())

	s := report.Summarize(report.Load(zaptest.NewLogger(t), results))
	assert.Positive(t, s.Total)
	assert.Equal(t, s.Total, s.Passed)
}
