// Package steps binds the Gherkin phrases of the authentication features to
// the page objects of a scenario world.
package steps

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	cucumber "github.com/pranas/cucumber-e2e"
	"github.com/pranas/cucumber-e2e/config"
	"github.com/pranas/cucumber-e2e/fixtures"
	"github.com/pranas/cucumber-e2e/world"
)

// ErrWorldNotReady is returned by a step that runs without the state it
// depends on, e.g. when the Before hook did not wire the page objects.
var ErrWorldNotReady = errors.New("world not ready")

// Definer is the part of the runner the steps register with.
type Definer interface {
	DefineBefore(fn cucumber.BeforeHook[*world.World])
	DefineAfter(fn cucumber.AfterHook[*world.World])
	DefineStep(pattern string, fn cucumber.StepHandler[*world.World])
}

type steps struct {
	env         *config.Environment
	launcher    world.Launcher
	log         *zap.Logger
	credentials fixtures.Set
	opts        []world.Option
}

// Register installs the scenario hooks and every step definition.
func Register(d Definer, env *config.Environment, launcher world.Launcher, log *zap.Logger, opts ...world.Option) {
	s := &steps{
		env:         env,
		launcher:    launcher,
		log:         log,
		credentials: fixtures.Default(),
		opts:        opts,
	}

	d.DefineBefore(s.before)
	d.DefineAfter(s.after)

	for _, def := range s.definitions() {
		d.DefineStep(def.pattern, def.handler)
	}
}

type definition struct {
	pattern string
	handler cucumber.StepHandler[*world.World]
}

func (s *steps) definitions() []definition {
	return []definition{
		// navigation
		{`^I am on the login page$`, iAmOnTheLoginPage},
		{`^I am logged in as a valid user$`, s.iAmLoggedInAsAValidUser},
		{`^I navigate to the secure area$`, iNavigateToTheSecureArea},

		// login form
		{`^I log in with "([^"]*)" credentials$`, s.iLogInWithCredentials},
		{`^I enter username "([^"]*)"$`, iEnterUsername},
		{`^I enter password "([^"]*)"$`, iEnterPassword},
		{`^I click the login button$`, iClickTheLoginButton},
		{`^I fail to log in (\d+) times$`, s.iFailToLogInTimes},

		// features the demo site does not have
		{`^I click the forgot password link$`, iClickTheForgotPasswordLink},
		{`^I click the sign up link$`, iClickTheSignUpLink},
		{`^I check remember me$`, iCheckRememberMe},

		// login page state
		{`^the login form should be visible$`, theLoginFormShouldBeVisible},
		{`^the page heading should be "([^"]*)"$`, thePageHeadingShouldBe},
		{`^I should (?:remain|be) on the login page$`, iShouldBeOnTheLoginPage},
		{`^I should see an error message$`, iShouldSeeAnErrorMessage},
		{`^I should see an error message containing "([^"]*)"$`, iShouldSeeAnErrorMessageContaining},
		{`^I should see a flash message containing "([^"]*)"$`, iShouldSeeAFlashMessageContaining},
		{`^I should have (\d+) failed login attempts?$`, iShouldHaveFailedLoginAttempts},
		{`^the account should be locked$`, theAccountShouldBeLocked},
		{`^the login should complete within (\d+) seconds$`, theLoginShouldCompleteWithin},

		// dashboard
		{`^I should be redirected to the secure area$`, iShouldBeRedirectedToTheSecureArea},
		{`^I should see the dashboard$`, iShouldSeeTheDashboard},
		{`^the welcome text should contain "([^"]*)"$`, theWelcomeTextShouldContain},
		{`^I click the logout button$`, iClickTheLogoutButton},
	}
}

func (s *steps) before(sc *cucumber.Scenario) (*world.World, error) {
	w := world.New(s.env, s.launcher, s.log, sc.Name, s.opts...)
	w.FailedAttempts = 0
	w.Credentials = nil

	if err := w.Init(); err != nil {
		return nil, fmt.Errorf("could not start browser for %q: %w", sc.Name, err)
	}
	w.Log.Info("scenario started", zap.Strings("tags", sc.Tags))
	return w, nil
}

func (s *steps) after(sc *cucumber.Scenario, w *world.World, failed bool) {
	if w == nil {
		return
	}

	if failed {
		w.Log.Warn("scenario failed")
	} else {
		w.Log.Info("scenario passed")
	}

	if path, err := w.CaptureScreenshot(sc, failed); err != nil {
		w.Log.Warn("could not capture screenshot", zap.Error(err))
	} else if path != "" {
		w.Log.Info("screenshot saved", zap.String("path", path))
	}

	if err := w.Cleanup(context.Background(), sc, failed); err != nil {
		w.Log.Warn("cleanup finished with errors", zap.Error(err))
	}
}

func ready(w *world.World) error {
	if w == nil {
		return fmt.Errorf("%w: no world for this scenario", ErrWorldNotReady)
	}
	if w.Login == nil || w.Dashboard == nil {
		return fmt.Errorf("%w: page objects are not initialized", ErrWorldNotReady)
	}
	return nil
}
