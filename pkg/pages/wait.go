// Package pages holds one page object per storefront page and the browser
// journey built from them.
package pages

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
)

// ErrNotObserved is wrapped by every error returned when an awaited event
// (download, dialog, banner, element) did not happen before its deadline.
var ErrNotObserved = errors.New("not observed")

// notObserved builds the timeout error for an awaited condition.
func notObserved(what string, timeout time.Duration, cause error) error {
	wrapped := ErrNotObserved
	if cause != nil {
		wrapped = fmt.Errorf("%w: %v", ErrNotObserved, cause)
	}
	return core.ErrWaitTimeout.WithMessage("%s not observed within %s", what, timeout).WithCause(wrapped)
}

// waitErr classifies a playwright error: timeouts become ErrNotObserved,
// anything else is wrapped with what was being attempted.
func waitErr(what string, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return notObserved(what, timeout, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// waitVisible waits for the locator to become visible. Failures other than
// the deadline are reported as core.ErrNotVisible.
func waitVisible(l playwright.Locator, what string, timeout time.Duration) error {
	err := l.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return notObserved(what, timeout, err)
	}
	return core.ErrNotVisible.WithMessage("%s not visible", what).WithCause(err)
}

// waitHidden waits for the locator to disappear.
func waitHidden(l playwright.Locator, what string, timeout time.Duration) error {
	err := l.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
	return waitErr(what, timeout, err)
}

// settle waits for the network to go idle after a navigation or click.
func settle(page playwright.Page, timeout time.Duration) error {
	err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: ms(timeout),
	})
	return waitErr("network idle", timeout, err)
}

// awaitMessage blocks until ch delivers or the timeout passes.
func awaitMessage(ch <-chan string, what string, timeout time.Duration) (string, error) {
	select {
	case msg := <-ch:
		return msg, nil
	case <-time.After(timeout):
		return "", notObserved(what, timeout, nil)
	}
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
