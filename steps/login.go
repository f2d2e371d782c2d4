package steps

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/world"
)

func iAmOnTheLoginPage(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	if err := w.Login.NavigateToLogin(); err != nil {
		return err
	}
	return expectTrue(w.Login.IsLoginFormVisible(), "login form did not show up at %s", w.Login.CurrentURL())
}

func (s *steps) iAmLoggedInAsAValidUser(w *world.World, _ ...string) error {
	if err := iAmOnTheLoginPage(w); err != nil {
		return err
	}
	if err := s.iLogInWithCredentials(w, "valid"); err != nil {
		return err
	}
	return iShouldSeeTheDashboard(w)
}

func (s *steps) iLogInWithCredentials(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	creds, err := s.credentials.Lookup(args[0])
	if err != nil {
		return err
	}
	w.Credentials = &creds

	w.LoginStartedAt = time.Now()
	err = w.Login.Login(creds.Username, creds.Password)
	w.LoginDuration = time.Since(w.LoginStartedAt)
	if err != nil {
		return err
	}

	w.Log.Debug("submitted login form", zap.String("kind", args[0]), zap.Duration("took", w.LoginDuration))
	return nil
}

func iEnterUsername(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Login.EnterUsername(args[0])
}

func iEnterPassword(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Login.EnterPassword(args[0])
}

func iClickTheLoginButton(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Login.ClickLogin()
}

func (s *steps) iFailToLogInTimes(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid attempt count %q: %w", args[0], err)
	}
	creds, err := s.credentials.Lookup("invalid-password")
	if err != nil {
		return err
	}
	w.Credentials = &creds

	for i := 0; i < n; i++ {
		if err := w.Login.Login(creds.Username, creds.Password); err != nil {
			return fmt.Errorf("attempt %d: %w", i+1, err)
		}
		if w.Login.GetErrorMessage() == "" {
			return fmt.Errorf("attempt %d did not fail", i+1)
		}
		w.FailedAttempts++
	}
	return nil
}

func iClickTheForgotPasswordLink(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Login.ClickForgotPassword()
}

func iClickTheSignUpLink(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Login.ClickSignUp()
}

func iCheckRememberMe(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Login.CheckRememberMe()
}

func theLoginFormShouldBeVisible(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectTrue(w.Login.IsLoginFormVisible(), "login form is not visible")
}

func thePageHeadingShouldBe(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	heading := w.Login.GetHeadingText()
	return expectTrue(heading == args[0], "expected heading %q, got %q", args[0], heading)
}

func iShouldBeOnTheLoginPage(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	if err := expectContains("URL", w.Login.CurrentURL(), "login"); err != nil {
		return err
	}
	return expectTrue(w.Login.IsLoginFormVisible(), "login form is not visible")
}

func iShouldSeeAnErrorMessage(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectNotEmpty("error message", w.Login.GetErrorMessage())
}

func iShouldSeeAnErrorMessageContaining(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectContains("error message", w.Login.GetErrorMessage(), args[0])
}

func iShouldSeeAFlashMessageContaining(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectContains("flash message", w.Login.GetFlashMessage(), args[0])
}

func iShouldHaveFailedLoginAttempts(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid attempt count %q: %w", args[0], err)
	}
	return expectTrue(w.FailedAttempts == n, "expected %d failed attempts, counted %d", n, w.FailedAttempts)
}

// The demo site never locks accounts. Without a lockout indicator the step
// only records that it could not check.
func theAccountShouldBeLocked(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	if !w.Login.IsAccountLocked() {
		w.Log.Warn("account lockout is not reported by the site, not asserting",
			zap.Int("failedAttempts", w.FailedAttempts))
	}
	return nil
}

func theLoginShouldCompleteWithin(w *world.World, args ...string) error {
	if w == nil || w.LoginStartedAt.IsZero() {
		return fmt.Errorf("%w: no login has been timed in this scenario", ErrWorldNotReady)
	}
	seconds, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", args[0], err)
	}
	limit := time.Duration(seconds) * time.Second
	return expectTrue(w.LoginDuration <= limit, "login took %s, limit is %s", w.LoginDuration, limit)
}
