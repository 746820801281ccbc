package report

import (
	"fmt"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
)

// NotifyMessage formats the one-line run summary sent by Notify.
func NotifyMessage(title string, s Summary) string {
	if title == "" {
		title = DefaultTitle
	}
	status := "PASS"
	if s.HasFailures() {
		status = "FAIL"
	}
	return fmt.Sprintf("%s: %s - %d tests, %d passed (%s%%), %d failed, %d skipped, %d flaky, %d timed out",
		title, status, s.Total, s.Passed, s.Percent(core.StatusPassed).String(), s.Failed, s.Skipped, s.Flaky, s.TimedOut)
}

// Notify sends the run summary to a Shoutrrr service URL.
func Notify(url, title string, s Summary) error {
	sender, err := shoutrrr.CreateSender(url)
	if err != nil {
		return fmt.Errorf("creating sender: %w", err)
	}

	params := types.Params{"title": title}
	for _, e := range sender.Send(NotifyMessage(title, s), &params) {
		if e != nil {
			return fmt.Errorf("sending notification: %w", e)
		}
	}
	return nil
}
