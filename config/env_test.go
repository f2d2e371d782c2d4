package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLookupDefaults(t *testing.T) {
	env, err := FromLookup(MapLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, Chromium, env.Browser)
	assert.True(t, env.Headless)
	assert.Zero(t, env.SlowMo)
	assert.Equal(t, DefaultBaseURL, env.BaseURL)
	assert.Equal(t, 1280, env.ViewportWidth)
	assert.Equal(t, 720, env.ViewportHeight)
	assert.Equal(t, "en-US", env.Locale)
	assert.Equal(t, "UTC", env.Timezone)
	assert.Equal(t, DefaultTimeout, env.DefaultTimeout)
	assert.Equal(t, 1, env.Parallel)
	assert.Zero(t, env.Retries)
	assert.False(t, env.CI)
	assert.Equal(t, "reports/screenshots", env.ScreenshotsDir())
	assert.Equal(t, "test-results/cucumber-report.json", env.ResultsFile())
	assert.Equal(t, DefaultArtifacts(), env.Artifacts)
}

func TestFromLookup(t *testing.T) {
	env, err := FromLookup(MapLookup(map[string]string{
		"BROWSER":         "Safari",
		"HEADED":          "true",
		"SLOW_MO":         "250",
		"BASE_URL":        "http://localhost:8080/",
		"VIEWPORT_WIDTH":  "800",
		"VIEWPORT_HEIGHT": "not-a-number",
		"DEFAULT_TIMEOUT": "5000",
		"PARALLEL":        "0",
		"RETRIES":         "2",
		"TAGS":            "@smoke",
		"CI":              "1",
		"DEBUG":           "yes",
		"MCP_ENABLED":     "true",
		"REPORTS_DIR":     "out",
	}))
	require.NoError(t, err)

	assert.Equal(t, WebKit, env.Browser)
	assert.False(t, env.Headless)
	assert.Equal(t, 250*time.Millisecond, env.SlowMo)
	assert.Equal(t, "http://localhost:8080", env.BaseURL)
	assert.Equal(t, "http://localhost:8080/login", env.URL("/login"))
	assert.Equal(t, 800, env.ViewportWidth)
	assert.Equal(t, DefaultViewportHeight, env.ViewportHeight)
	assert.Equal(t, 5*time.Second, env.DefaultTimeout)
	assert.Equal(t, 1, env.Parallel)
	assert.Equal(t, 2, env.Retries)
	assert.Equal(t, "@smoke", env.Tags)
	assert.True(t, env.CI)
	assert.True(t, env.Debug)
	assert.True(t, env.MCPEnabled)
	assert.Equal(t, "out/traces", env.TracesDir())
	assert.Equal(t, "out/cucumber-html-report", env.HTMLReportDir())
}

func TestParseBrowser(t *testing.T) {
	for in, want := range map[string]BrowserName{
		"":         Chromium,
		"chrome":   Chromium,
		"Chromium": Chromium,
		"firefox":  Firefox,
		"webkit":   WebKit,
	} {
		got, err := ParseBrowser(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBrowser("netscape")
	assert.True(t, errors.Is(err, ErrUnknownBrowser))

	_, err = FromLookup(MapLookup(map[string]string{"BROWSER": "netscape"}))
	assert.ErrorIs(t, err, ErrUnknownBrowser)
}
