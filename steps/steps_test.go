package steps

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cucumber "github.com/pranas/cucumber-e2e"
	"github.com/pranas/cucumber-e2e/config"
	"github.com/pranas/cucumber-e2e/fixtures"
	"github.com/pranas/cucumber-e2e/world"
)

type fakeLogin struct {
	url         string
	formVisible bool
	heading     string
	errorText   string
	flash       string

	username string
	password string
	submits  int
}

func (f *fakeLogin) NavigateToLogin() error {
	f.url = "https://example.test/login"
	f.formVisible = true
	return nil
}

func (f *fakeLogin) EnterUsername(username string) error {
	f.username = username
	return nil
}

func (f *fakeLogin) EnterPassword(password string) error {
	f.password = password
	return nil
}

func (f *fakeLogin) ClickLogin() error {
	f.submits++
	return nil
}

func (f *fakeLogin) Login(username, password string) error {
	f.username, f.password = username, password
	return f.ClickLogin()
}

func (f *fakeLogin) IsLoginFormVisible() bool { return f.formVisible }
func (f *fakeLogin) GetHeadingText() string { return f.heading }
func (f *fakeLogin) GetErrorMessage() string { return f.errorText }
func (f *fakeLogin) GetFlashMessage() string { return f.flash }
func (f *fakeLogin) CurrentURL() string { return f.url }
func (f *fakeLogin) ClickForgotPassword() error { return nil }
func (f *fakeLogin) ClickSignUp() error { return nil }
func (f *fakeLogin) CheckRememberMe() error { return nil }
func (f *fakeLogin) IsAccountLocked() bool { return false }

type fakeDashboard struct {
	url           string
	visible       bool
	heading       string
	welcome       string
	flash         string
	logoutVisible bool
	logouts       int
}

func (f *fakeDashboard) NavigateToDashboard() error {
	f.url = "https://example.test/secure"
	return nil
}

func (f *fakeDashboard) IsDashboardVisible() bool { return f.visible }
func (f *fakeDashboard) GetHeadingText() string { return f.heading }
func (f *fakeDashboard) GetWelcomeText() string { return f.welcome }
func (f *fakeDashboard) GetFlashMessage() string { return f.flash }
func (f *fakeDashboard) IsLogoutVisible() bool { return f.logoutVisible }
func (f *fakeDashboard) CurrentURL() string { return f.url }

func (f *fakeDashboard) ClickLogout() error {
	f.logouts++
	return nil
}

func newWorld() (*world.World, *fakeLogin, *fakeDashboard) {
	login := &fakeLogin{}
	dashboard := &fakeDashboard{}
	return &world.World{Log: zap.NewNop(), Login: login, Dashboard: dashboard}, login, dashboard
}

func newSteps() *steps {
	return &steps{log: zap.NewNop(), credentials: fixtures.Default()}
}

func TestStepsRequireReadyWorld(t *testing.T) {
	for _, def := range newSteps().definitions() {
		err := def.handler(&world.World{Log: zap.NewNop()}, "1")
		assert.ErrorIs(t, err, ErrWorldNotReady, def.pattern)

		err = def.handler(nil, "1")
		assert.ErrorIs(t, err, ErrWorldNotReady, def.pattern)
	}
}

func TestLogInWithCredentials(t *testing.T) {
	w, login, _ := newWorld()
	s := newSteps()

	require.NoError(t, s.iLogInWithCredentials(w, "valid"))
	assert.Equal(t, "tomsmith", login.username)
	assert.Equal(t, "SuperSecretPassword!", login.password)
	require.NotNil(t, w.Credentials)
	assert.Equal(t, "tomsmith", w.Credentials.Username)
	assert.False(t, w.LoginStartedAt.IsZero())

	err := s.iLogInWithCredentials(w, "admin")
	assert.ErrorIs(t, err, fixtures.ErrUnknownCredentials)
}

func TestLoginPageSteps(t *testing.T) {
	w, login, _ := newWorld()

	require.NoError(t, iAmOnTheLoginPage(w))
	require.NoError(t, iShouldBeOnTheLoginPage(w))
	require.NoError(t, theLoginFormShouldBeVisible(w))

	login.heading = "Login Page"
	assert.NoError(t, thePageHeadingShouldBe(w, "Login Page"))
	assert.Error(t, thePageHeadingShouldBe(w, "Secure Area"))

	login.url = "https://example.test/secure"
	assert.Error(t, iShouldBeOnTheLoginPage(w))
}

func TestManualLoginSteps(t *testing.T) {
	w, login, _ := newWorld()

	require.NoError(t, iEnterUsername(w, "notauser"))
	require.NoError(t, iEnterPassword(w, "secret"))
	require.NoError(t, iClickTheLoginButton(w))

	assert.Equal(t, "notauser", login.username)
	assert.Equal(t, "secret", login.password)
	assert.Equal(t, 1, login.submits)
}

func TestMessageSteps(t *testing.T) {
	w, login, _ := newWorld()

	assert.Error(t, iShouldSeeAnErrorMessage(w))

	login.errorText = "Your username is invalid!"
	login.flash = "Your username is invalid!"
	assert.NoError(t, iShouldSeeAnErrorMessage(w))
	assert.NoError(t, iShouldSeeAnErrorMessageContaining(w, "username is invalid"))
	assert.NoError(t, iShouldSeeAFlashMessageContaining(w, "invalid"))

	err := iShouldSeeAnErrorMessageContaining(w, "password is invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Your username is invalid!"`)
}

func TestFailedAttempts(t *testing.T) {
	w, login, _ := newWorld()
	s := newSteps()

	err := s.iFailToLogInTimes(w, "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempt 1 did not fail")
	assert.Zero(t, w.FailedAttempts)

	login.errorText = "Your password is invalid!"
	require.NoError(t, s.iFailToLogInTimes(w, "3"))
	assert.Equal(t, 3, w.FailedAttempts)
	assert.Equal(t, 3, login.submits-1)

	assert.NoError(t, iShouldHaveFailedLoginAttempts(w, "3"))
	assert.Error(t, iShouldHaveFailedLoginAttempts(w, "1"))

	// the site has no lockout, the step must not fail on that
	assert.NoError(t, theAccountShouldBeLocked(w))
}

func TestLoginTiming(t *testing.T) {
	w, _, _ := newWorld()

	assert.ErrorIs(t, theLoginShouldCompleteWithin(w, "10"), ErrWorldNotReady)

	w.LoginStartedAt = time.Now()
	w.LoginDuration = 2 * time.Second
	assert.NoError(t, theLoginShouldCompleteWithin(w, "10"))
	assert.Error(t, theLoginShouldCompleteWithin(w, "1"))
}

func TestDashboardSteps(t *testing.T) {
	w, _, dashboard := newWorld()

	assert.Error(t, iShouldSeeTheDashboard(w))
	assert.Error(t, iClickTheLogoutButton(w))

	require.NoError(t, iNavigateToTheSecureArea(w))
	dashboard.visible = true
	dashboard.logoutVisible = true
	dashboard.welcome = "Welcome to the Secure Area. When you are done click logout below."

	assert.NoError(t, iShouldBeRedirectedToTheSecureArea(w))
	assert.NoError(t, iShouldSeeTheDashboard(w))
	assert.NoError(t, theWelcomeTextShouldContain(w, "Welcome to the Secure Area"))
	assert.NoError(t, iClickTheLogoutButton(w))
	assert.Equal(t, 1, dashboard.logouts)
}

func TestLoggedInBackground(t *testing.T) {
	w, login, dashboard := newWorld()
	dashboard.visible = true

	require.NoError(t, newSteps().iAmLoggedInAsAValidUser(w))
	assert.Equal(t, "tomsmith", login.username)
}

type fakeDefiner struct {
	before   cucumber.BeforeHook[*world.World]
	after    cucumber.AfterHook[*world.World]
	patterns []string
}

func (d *fakeDefiner) DefineBefore(fn cucumber.BeforeHook[*world.World]) { d.before = fn }
func (d *fakeDefiner) DefineAfter(fn cucumber.AfterHook[*world.World]) { d.after = fn }

func (d *fakeDefiner) DefineStep(pattern string, _ cucumber.StepHandler[*world.World]) {
	d.patterns = append(d.patterns, pattern)
}

type failingLauncher struct{}

func (failingLauncher) Launch(config.BrowserName, playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	return nil, errors.New("browser not installed")
}

func TestRegister(t *testing.T) {
	env, err := config.FromLookup(config.MapLookup(map[string]string{"REPORTS_DIR": t.TempDir()}))
	require.NoError(t, err)

	d := &fakeDefiner{}
	Register(d, env, failingLauncher{}, zap.NewNop())

	require.NotNil(t, d.before)
	require.NotNil(t, d.after)
	assert.Len(t, d.patterns, len(newSteps().definitions()))

	sc := &cucumber.Scenario{Name: "Successful login"}
	w, err := d.before(sc)
	require.Error(t, err)
	assert.Nil(t, w)
	assert.Contains(t, err.Error(), "Successful login")
	assert.Contains(t, err.Error(), "browser not installed")

	// an uninitialized world is torn down without complaint
	assert.NotPanics(t, func() {
		d.after(sc, world.New(env, failingLauncher{}, zap.NewNop(), sc.Name), true)
		d.after(sc, nil, false)
	})
}

var stepLine = regexp.MustCompile(`^\s*(?:Given|When|Then|And|But) (.+)$`)

func TestFeatureStepsMatchExactlyOneDefinition(t *testing.T) {
	var patterns []*regexp.Regexp
	for _, def := range newSteps().definitions() {
		patterns = append(patterns, regexp.MustCompile(def.pattern))
	}

	paths, err := filepath.Glob(filepath.Join("..", "features", "*.feature"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		f, err := os.Open(path)
		require.NoError(t, err)

		scanner := bufio.NewScanner(f)
		line := 0
		for scanner.Scan() {
			line++
			m := stepLine.FindStringSubmatch(scanner.Text())
			if m == nil {
				continue
			}
			text := strings.TrimSpace(m[1])

			matches := 0
			for _, p := range patterns {
				if p.MatchString(text) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "%s:%d %q", filepath.Base(path), line, text)
		}
		require.NoError(t, scanner.Err())
		f.Close()
	}
}
