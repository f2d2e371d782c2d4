package world

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/config"
)

// Launcher starts a browser engine by name.
type Launcher interface {
	Launch(name config.BrowserName, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error)
}

// PlaywrightLauncher owns the playwright driver process. One driver serves
// every world of a run; each world still launches its own browser.
type PlaywrightLauncher struct {
	pw *playwright.Playwright
}

// StartPlaywright starts the driver, installing browsers first when install
// is set.
func StartPlaywright(install bool) (*PlaywrightLauncher, error) {
	if install {
		if err := playwright.Install(); err != nil {
			return nil, fmt.Errorf("failed to install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	return &PlaywrightLauncher{pw: pw}, nil
}

func (l *PlaywrightLauncher) Launch(name config.BrowserName, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	var bt playwright.BrowserType
	switch name {
	case config.Chromium:
		bt = l.pw.Chromium
	case config.Firefox:
		bt = l.pw.Firefox
	case config.WebKit:
		bt = l.pw.WebKit
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBrowser, name)
	}
	return bt.Launch(opts)
}

func (l *PlaywrightLauncher) Stop() error {
	return l.pw.Stop()
}

// Session is the browser, context and page a world holds while it is
// initialized. A nil *Session means nothing is acquired.
type Session struct {
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	tracing bool
}

// acquire launches and configures a full session. On error everything
// acquired so far has been released again.
func acquire(launcher Launcher, env *config.Environment, title string, log *zap.Logger) (s *Session, err error) {
	browser, err := launcher.Launch(env.Browser, playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(env.Headless),
		SlowMo:   playwright.Float(float64(env.SlowMo.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", env.Browser, err)
	}

	s = &Session{Browser: browser}
	defer func() {
		if err != nil {
			err = errors.Join(err, s.release())
			s = nil
		}
	}()

	viewport := &playwright.Size{Width: env.ViewportWidth, Height: env.ViewportHeight}
	opts := playwright.BrowserNewContextOptions{
		Viewport:          viewport,
		Locale:            playwright.String(env.Locale),
		TimezoneId:        playwright.String(env.Timezone),
		IgnoreHttpsErrors: playwright.Bool(true),
		BaseURL:           playwright.String(env.BaseURL),
	}
	if env.Artifacts.Videos {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir:  env.VideosDir(),
			Size: viewport,
		}
	}
	if env.StorageState != "" {
		opts.StorageStatePath = playwright.String(env.StorageState)
	}

	s.Context, err = browser.NewContext(opts)
	if err != nil {
		return s, fmt.Errorf("failed to create browser context: %w", err)
	}

	if env.Artifacts.Traces {
		err = s.Context.Tracing().Start(playwright.TracingStartOptions{
			Title:       playwright.String(title),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			return s, fmt.Errorf("failed to start tracing: %w", err)
		}
		s.tracing = true
	}

	s.Page, err = s.Context.NewPage()
	if err != nil {
		return s, fmt.Errorf("failed to open page: %w", err)
	}

	s.Page.SetDefaultTimeout(float64(env.DefaultTimeout.Milliseconds()))
	s.Page.SetDefaultNavigationTimeout(float64(env.NavigationTimeout.Milliseconds()))

	if env.Debug {
		s.Page.OnConsole(func(msg playwright.ConsoleMessage) {
			log.Debug("browser console", zap.String("type", msg.Type()), zap.String("text", msg.Text()))
		})
		s.Page.OnRequest(func(req playwright.Request) {
			log.Debug("browser request", zap.String("method", req.Method()), zap.String("url", req.URL()))
		})
	}

	return s, nil
}

// release closes page, context and browser in that order. Each close is
// attempted even when an earlier one fails or panics.
func (s *Session) release() error {
	var errs []error
	if s.Page != nil {
		errs = append(errs, guard("page", func() error { return s.Page.Close() }))
	}
	if s.Context != nil {
		errs = append(errs, guard("context", func() error { return s.Context.Close() }))
	}
	if s.Browser != nil {
		errs = append(errs, guard("browser", func() error { return s.Browser.Close() }))
	}
	return errors.Join(errs...)
}

func guard(what string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close %s panicked: %v", what, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("close %s: %w", what, err)
	}
	return nil
}
