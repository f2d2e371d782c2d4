package steps

import (
	"github.com/pranas/cucumber-e2e/world"
)

func iNavigateToTheSecureArea(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return w.Dashboard.NavigateToDashboard()
}

func iShouldBeRedirectedToTheSecureArea(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectContains("URL", w.Dashboard.CurrentURL(), "secure")
}

func iShouldSeeTheDashboard(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectTrue(w.Dashboard.IsDashboardVisible(),
		"dashboard is not visible (heading %q, url %s)", w.Dashboard.GetHeadingText(), w.Dashboard.CurrentURL())
}

func theWelcomeTextShouldContain(w *world.World, args ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	return expectContains("welcome text", w.Dashboard.GetWelcomeText(), args[0])
}

func iClickTheLogoutButton(w *world.World, _ ...string) error {
	if err := ready(w); err != nil {
		return err
	}
	if err := expectTrue(w.Dashboard.IsLogoutVisible(), "logout button is not visible at %s", w.Dashboard.CurrentURL()); err != nil {
		return err
	}
	return w.Dashboard.ClickLogout()
}
