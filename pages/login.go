package pages

import (
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/config"
)

const (
	LoginPath = "/login"

	loginForm     = "form#login"
	usernameInput = "#username"
	passwordInput = "#password"
	loginButton   = "form#login button[type='submit']"
	loginHeading  = "div.example h2"
	flashMessage  = "#flash"
	flashError    = "#flash.error"
)

type LoginPage struct {
	basePage
}

var _ LoginScreen = (*LoginPage)(nil)

func NewLoginPage(page playwright.Page, env *config.Environment, log *zap.Logger) *LoginPage {
	return &LoginPage{basePage{page: page, env: env, log: log.Named("login-page")}}
}

func (p *LoginPage) NavigateToLogin() error {
	return p.navigate(LoginPath)
}

func (p *LoginPage) EnterUsername(username string) error {
	return p.fill(usernameInput, username)
}

func (p *LoginPage) EnterPassword(password string) error {
	return p.fill(passwordInput, password)
}

func (p *LoginPage) ClickLogin() error {
	return p.click(loginButton)
}

func (p *LoginPage) Login(username, password string) error {
	if err := p.EnterUsername(username); err != nil {
		return err
	}
	if err := p.EnterPassword(password); err != nil {
		return err
	}
	return p.ClickLogin()
}

func (p *LoginPage) IsLoginFormVisible() bool {
	return p.isVisible(loginForm)
}

func (p *LoginPage) GetHeadingText() string {
	return p.text(loginHeading)
}

func (p *LoginPage) GetErrorMessage() string {
	return p.text(flashError)
}

func (p *LoginPage) GetFlashMessage() string {
	return p.text(flashMessage)
}

func (p *LoginPage) ClickForgotPassword() error {
	p.unsupported("forgot password")
	return nil
}

func (p *LoginPage) ClickSignUp() error {
	p.unsupported("sign up")
	return nil
}

func (p *LoginPage) CheckRememberMe() error {
	p.unsupported("remember me")
	return nil
}

// IsAccountLocked always answers false: the site never locks accounts.
func (p *LoginPage) IsAccountLocked() bool {
	p.unsupported("account lockout")
	return false
}
