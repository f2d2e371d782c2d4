package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/pranas/cucumber-e2e/config"
)

// maxQueryWait caps how long state queries wait, so that checking for
// something that is not there does not cost the full action timeout.
const maxQueryWait = 5 * time.Second

type basePage struct {
	page playwright.Page
	env  *config.Environment
	log  *zap.Logger
}

func (b *basePage) actionTimeout() *float64 {
	return playwright.Float(float64(b.env.DefaultTimeout.Milliseconds()))
}

func (b *basePage) queryTimeout() *float64 {
	d := b.env.DefaultTimeout
	if d > maxQueryWait {
		d = maxQueryWait
	}
	return playwright.Float(float64(d.Milliseconds()))
}

func (b *basePage) navigate(path string) error {
	url := b.env.URL(path)
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (b *basePage) waitVisible(selector string, timeout *float64) (playwright.Locator, error) {
	loc := b.page.Locator(selector).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("wait for %s to be visible: %w", selector, err)
	}
	return loc, nil
}

func (b *basePage) fill(selector, value string) error {
	loc, err := b.waitVisible(selector, b.actionTimeout())
	if err != nil {
		return err
	}
	if err := loc.Fill(value, playwright.LocatorFillOptions{Timeout: b.actionTimeout()}); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

// click waits for the element, clicks it (playwright waits for it to be
// enabled) and then for the resulting document to load.
func (b *basePage) click(selector string) error {
	loc, err := b.waitVisible(selector, b.actionTimeout())
	if err != nil {
		return err
	}
	if err := loc.Click(playwright.LocatorClickOptions{Timeout: b.actionTimeout()}); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	err = b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("wait for page load after clicking %s: %w", selector, err)
	}
	return nil
}

func (b *basePage) isVisible(selector string) bool {
	_, err := b.waitVisible(selector, b.queryTimeout())
	return err == nil
}

func (b *basePage) text(selector string) string {
	loc, err := b.waitVisible(selector, b.queryTimeout())
	if err != nil {
		b.log.Debug("element not found", zap.String("selector", selector), zap.Error(err))
		return ""
	}
	text, err := loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: b.queryTimeout()})
	if err != nil {
		return ""
	}
	return cleanText(text)
}

func (b *basePage) CurrentURL() string {
	return b.page.URL()
}

func (b *basePage) unsupported(feature string) {
	b.log.Warn("feature not available on the demo site, skipping", zap.String("feature", feature))
}

// cleanText drops the close glyph the site renders inside flash messages.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "×", "")
	return strings.TrimSpace(s)
}
