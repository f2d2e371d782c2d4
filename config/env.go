// Package config turns environment variables into the typed settings the
// rest of the framework is built from. Nothing here reads the process
// environment implicitly: callers pass a LookupFunc, usually os.LookupEnv.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// MapLookup adapts a map for tests and fixtures.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

type BrowserName string

const (
	Chromium BrowserName = "chromium"
	Firefox  BrowserName = "firefox"
	WebKit   BrowserName = "webkit"
)

var ErrUnknownBrowser = errors.New("unknown browser")

// ParseBrowser accepts the three engines plus the common aliases.
func ParseBrowser(name string) (BrowserName, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "chromium", "chrome", "msedge", "edge":
		return Chromium, nil
	case "firefox", "ff":
		return Firefox, nil
	case "webkit", "safari":
		return WebKit, nil
	}
	return "", fmt.Errorf("%w: %q (want chromium, firefox or webkit)", ErrUnknownBrowser, name)
}

const (
	DefaultBaseURL           = "https://the-internet.herokuapp.com"
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
	DefaultTimeout           = 30 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultReportsDir        = "reports"
	DefaultResultsDir        = "test-results"
)

// Environment is the run-wide configuration snapshot handed to every world.
type Environment struct {
	Browser           BrowserName
	Headless          bool
	SlowMo            time.Duration
	BaseURL           string
	ViewportWidth     int
	ViewportHeight    int
	Locale            string
	Timezone          string
	DefaultTimeout    time.Duration
	NavigationTimeout time.Duration
	StorageState      string

	Parallel int
	Retries  int
	Tags     string

	CI    bool
	Debug bool

	ReportsDir string
	ResultsDir string

	// MCP settings are accepted so existing pipelines keep working; nothing
	// consumes them yet.
	MCPEnabled bool
	MCPConfig  string

	Artifacts Artifacts
}

// FromLookup builds the Environment. Missing or malformed values fall back
// to their defaults; only an unknown browser name is an error.
func FromLookup(lookup LookupFunc) (*Environment, error) {
	browserVar, _ := lookup("BROWSER")
	browser, err := ParseBrowser(browserVar)
	if err != nil {
		return nil, err
	}

	headed, _ := boolVar(lookup, "HEADED")

	env := &Environment{
		Browser:           browser,
		Headless:          !headed,
		SlowMo:            time.Duration(intVar(lookup, "SLOW_MO", 0)) * time.Millisecond,
		BaseURL:           strings.TrimRight(stringVar(lookup, "BASE_URL", DefaultBaseURL), "/"),
		ViewportWidth:     intVar(lookup, "VIEWPORT_WIDTH", DefaultViewportWidth),
		ViewportHeight:    intVar(lookup, "VIEWPORT_HEIGHT", DefaultViewportHeight),
		Locale:            stringVar(lookup, "LOCALE", "en-US"),
		Timezone:          stringVar(lookup, "TIMEZONE", "UTC"),
		DefaultTimeout:    msVar(lookup, "DEFAULT_TIMEOUT", DefaultTimeout),
		NavigationTimeout: msVar(lookup, "NAVIGATION_TIMEOUT", DefaultNavigationTimeout),
		StorageState:      stringVar(lookup, "STORAGE_STATE", ""),
		Parallel:          intVar(lookup, "PARALLEL", 1),
		Retries:           intVar(lookup, "RETRIES", 0),
		Tags:              stringVar(lookup, "TAGS", ""),
		ReportsDir:        stringVar(lookup, "REPORTS_DIR", DefaultReportsDir),
		ResultsDir:        stringVar(lookup, "RESULTS_DIR", DefaultResultsDir),
		MCPConfig:         stringVar(lookup, "MCP_CONFIG", ""),
		Artifacts:         ArtifactsFromLookup(lookup),
	}
	env.CI, _ = boolVar(lookup, "CI")
	env.Debug, _ = boolVar(lookup, "DEBUG")
	env.MCPEnabled, _ = boolVar(lookup, "MCP_ENABLED")

	if env.Parallel < 1 {
		env.Parallel = 1
	}
	if env.Retries < 0 {
		env.Retries = 0
	}

	return env, nil
}

func (e *Environment) ScreenshotsDir() string {
	return filepath.Join(e.ReportsDir, "screenshots")
}

func (e *Environment) VideosDir() string {
	return filepath.Join(e.ReportsDir, "videos")
}

func (e *Environment) TracesDir() string {
	return filepath.Join(e.ReportsDir, "traces")
}

func (e *Environment) HTMLReportDir() string {
	return filepath.Join(e.ReportsDir, "cucumber-html-report")
}

func (e *Environment) ResultsFile() string {
	return filepath.Join(e.ResultsDir, "cucumber-report.json")
}

func (e *Environment) JUnitFile() string {
	return filepath.Join(e.ResultsDir, "junit.xml")
}

// URL joins path onto the base URL.
func (e *Environment) URL(path string) string {
	if path == "" {
		return e.BaseURL
	}
	return e.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func stringVar(lookup LookupFunc, key, def string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func intVar(lookup LookupFunc, key string, def int) int {
	v, ok := lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func msVar(lookup LookupFunc, key string, def time.Duration) time.Duration {
	n := intVar(lookup, key, -1)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}

// boolVar reports the parsed value and whether the variable was set to
// something recognisable.
func boolVar(lookup LookupFunc, key string) (bool, bool) {
	v, ok := lookup(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
