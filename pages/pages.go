// Package pages holds the page objects for the demo login site. Actions wait
// for their target to become visible before touching it; queries never fail
// on a missing element and answer false or "" instead.
package pages

// LoginScreen is the /login page.
type LoginScreen interface {
	NavigateToLogin() error
	EnterUsername(username string) error
	EnterPassword(password string) error
	ClickLogin() error
	Login(username, password string) error

	IsLoginFormVisible() bool
	GetHeadingText() string
	GetErrorMessage() string
	GetFlashMessage() string
	CurrentURL() string

	// Not available on the demo site, kept so the feature files can
	// describe them. They log a warning and do nothing.
	ClickForgotPassword() error
	ClickSignUp() error
	CheckRememberMe() error
	IsAccountLocked() bool
}

// DashboardScreen is the /secure area shown after a successful login.
type DashboardScreen interface {
	NavigateToDashboard() error
	IsDashboardVisible() bool
	GetHeadingText() string
	GetWelcomeText() string
	GetFlashMessage() string
	IsLogoutVisible() bool
	ClickLogout() error
	CurrentURL() string
}
