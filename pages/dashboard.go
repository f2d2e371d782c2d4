package pages

import (
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/config"
)

const (
	SecurePath = "/secure"

	SecureAreaHeading = "Secure Area"

	dashboardHeading = "div.example h2"
	dashboardWelcome = "div.example h4.subheader"
	logoutButton     = "a[href='/logout']"
)

type DashboardPage struct {
	basePage
}

var _ DashboardScreen = (*DashboardPage)(nil)

func NewDashboardPage(page playwright.Page, env *config.Environment, log *zap.Logger) *DashboardPage {
	return &DashboardPage{basePage{page: page, env: env, log: log.Named("dashboard-page")}}
}

func (p *DashboardPage) NavigateToDashboard() error {
	return p.navigate(SecurePath)
}

// IsDashboardVisible needs both the secure area heading and the logout link.
func (p *DashboardPage) IsDashboardVisible() bool {
	if !p.IsLogoutVisible() {
		return false
	}
	return strings.Contains(p.GetHeadingText(), SecureAreaHeading)
}

func (p *DashboardPage) GetHeadingText() string {
	return p.text(dashboardHeading)
}

func (p *DashboardPage) GetWelcomeText() string {
	return p.text(dashboardWelcome)
}

func (p *DashboardPage) GetFlashMessage() string {
	return p.text(flashMessage)
}

func (p *DashboardPage) IsLogoutVisible() bool {
	return p.isVisible(logoutButton)
}

func (p *DashboardPage) ClickLogout() error {
	return p.click(logoutButton)
}
