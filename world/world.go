// Package world owns the per-scenario browser session: it acquires a fresh
// browser, context and page when a scenario starts and releases them, along
// with the scenario's recordings, when it ends.
package world

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/config"
	"github.com/pranas/cucumber-e2e/fixtures"
	"github.com/pranas/cucumber-e2e/pages"
)

type State int

const (
	Uninitialized State = iota
	Initialized
	CleaningUp
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case CleaningUp:
		return "cleaning-up"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNotInitialized     = errors.New("world is not initialized")
	ErrAlreadyInitialized = errors.New("world is already initialized")
)

// Timeouts bound the parts of cleanup that talk to the browser.
type Timeouts struct {
	TraceStop  time.Duration
	Close      time.Duration
	ForceClose time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		TraceStop:  5 * time.Second,
		Close:      10 * time.Second,
		ForceClose: 2 * time.Second,
	}
}

// Attacher receives artifacts for the scenario report.
type Attacher interface {
	Attach(data []byte, mediaType string)
}

// World is the state of one scenario. It is created by the Before hook and
// must not outlive the After hook.
type World struct {
	Env      *config.Environment
	Scenario string
	Log      *zap.Logger

	Login     pages.LoginScreen
	Dashboard pages.DashboardScreen

	// Scenario state used by the step definitions.
	Credentials    *fixtures.Credentials
	FailedAttempts int
	StartedAt      time.Time
	LoginStartedAt time.Time
	LoginDuration  time.Duration

	launcher Launcher
	timeouts Timeouts
	now      func() time.Time

	state   State
	session *Session
}

type Option func(*World)

func WithTimeouts(t Timeouts) Option {
	return func(w *World) {
		w.timeouts = t
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *World) {
		w.now = now
	}
}

func New(env *config.Environment, launcher Launcher, log *zap.Logger, scenario string, opts ...Option) *World {
	w := &World{
		Env:      env,
		Scenario: scenario,
		Log:      log.With(zap.String("scenario", scenario)),
		launcher: launcher,
		timeouts: DefaultTimeouts(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.StartedAt = w.now()
	return w
}

func (w *World) State() State {
	return w.state
}

// Page returns the live page, or ErrNotInitialized outside Init..Cleanup.
func (w *World) Page() (playwright.Page, error) {
	if w.state != Initialized || w.session == nil {
		return nil, ErrNotInitialized
	}
	return w.session.Page, nil
}

// Init launches the browser and wires the page objects. A launch failure is
// returned as is and leaves the world uninitialized.
func (w *World) Init() error {
	if w.state != Uninitialized {
		return fmt.Errorf("%w (state %s)", ErrAlreadyInitialized, w.state)
	}

	if err := w.prepareDirs(); err != nil {
		return err
	}

	s, err := acquire(w.launcher, w.Env, w.Scenario, w.Log)
	if err != nil {
		return err
	}

	w.session = s
	w.state = Initialized
	w.Login = pages.NewLoginPage(s.Page, w.Env, w.Log)
	w.Dashboard = pages.NewDashboardPage(s.Page, w.Env, w.Log)

	w.Log.Debug("world initialized",
		zap.String("browser", string(w.Env.Browser)),
		zap.Bool("headless", w.Env.Headless),
		zap.Bool("tracing", s.tracing))
	return nil
}

func (w *World) prepareDirs() error {
	a := w.Env.Artifacts
	dirs := map[string]bool{
		w.Env.ScreenshotsDir(): a.Screenshots,
		w.Env.VideosDir():      a.Videos,
		w.Env.TracesDir():      a.Traces,
	}
	for dir, enabled := range dirs {
		if !enabled {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// within runs fn and gives up waiting after d. fn keeps running in the
// background when the deadline passes.
func within(ctx context.Context, d time.Duration, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
