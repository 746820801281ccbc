package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/storefront-e2e/pkg/config"
	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/csvdata"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/suite"
)

// Project is the project name recorded for browser checks.
const Project = "chromium"

// CartProducts are the product ids the cart check adds.
var CartProducts = []int{1, 2, 3}

// Journey returns the browser checks in execution order. The checks share
// the session's page, so later checks rely on the state earlier ones leave
// behind (logged in, items in the cart).
func Journey(cfg *config.Config, s *Session) []suite.Check {
	timeout := cfg.WaitTimeout()
	title := func(name ...string) []string { return append([]string{"UI"}, name...) }

	login := NewLoginPage(s.Page, timeout)
	catalog := NewCatalogPage(s.Page, timeout, cfg.URL)
	checkout := NewCheckoutPage(s.Page, timeout, cfg.URL)

	checks := []suite.Check{
		suite.New(Project, title("login with configured account"), func(ctx context.Context, t *suite.T) error {
			if !cfg.HasCredentials() {
				return suite.Skipf("%v", core.ErrMissingCredentials)
			}
			if err := login.Open(cfg.URL("")); err != nil {
				return err
			}
			return login.Login(cfg.AdminUser, cfg.AdminPassword)
		}),

		suite.New(Project, title("test case headings"), func(ctx context.Context, t *suite.T) error {
			headings, err := catalog.Headings(HeadingPrefix)
			if err != nil {
				return err
			}
			if len(headings) == 0 {
				return core.ErrEmptyList.WithMessage("no headings starting with %q", HeadingPrefix)
			}
			for i, h := range headings {
				t.Logf("%d: %s", i+1, h)
			}
			return nil
		}),

		suite.New(Project, title("brand names"), func(ctx context.Context, t *suite.T) error {
			brands, err := catalog.BrandNames()
			if err != nil {
				return err
			}
			if len(brands) == 0 {
				return core.ErrEmptyList.WithMessage("no brand names in the products sidebar")
			}
			t.Logf("found %d brand(s): %v", len(brands), brands)
			return nil
		}),

		suite.New(Project, title("add products to cart"), func(ctx context.Context, t *suite.T) error {
			rows, err := catalog.AddToCart(CartProducts...)
			if err != nil {
				return err
			}
			if rows < len(CartProducts) {
				return core.ErrEmptyList.WithMessage("cart has %d rows, want at least %d", rows, len(CartProducts))
			}
			return nil
		}),

		suite.New(Project, title("footer subscription"), func(ctx context.Context, t *suite.T) error {
			email := fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8])
			msg, err := catalog.Subscribe(email)
			if err != nil {
				return err
			}
			t.Logf("subscription result: %s", msg)
			return nil
		}),

		suite.New(Project, title("checkout and download invoice"), func(ctx context.Context, t *suite.T) error {
			if !cfg.HasCredentials() {
				return suite.Skipf("checkout needs a logged-in account: %v", core.ErrMissingCredentials)
			}
			if _, err := checkout.Proceed(); err != nil {
				return err
			}
			if err := checkout.PlaceOrder(); err != nil {
				return err
			}
			if err := checkout.Pay(TestCard(time.Now())); err != nil {
				return err
			}
			if err := checkout.ConfirmOrder(); err != nil {
				return err
			}
			path, err := checkout.DownloadInvoice(cfg.OutputDir, "")
			if err != nil {
				return err
			}
			t.Attach(core.AttachmentInvoice, path)
			return nil
		}),
	}

	return append(checks, contactChecks(cfg, s)...)
}

// contactChecks builds one check per row of the contact data file. A data
// file that cannot be read yields a single failing check.
func contactChecks(cfg *config.Config, s *Session) []suite.Check {
	if cfg.DataFile == "" {
		return nil
	}

	records, err := csvdata.Read(cfg.DataFile)
	if err != nil {
		readErr := &core.CheckError{
			Category: core.ErrCategoryConfig,
			Code:     "data_file",
			Message:  "read contact data",
			Cause:    err,
		}
		return []suite.Check{
			suite.New(Project, []string{"UI", "contact us", "data file"}, func(ctx context.Context, t *suite.T) error {
				return readErr
			}),
		}
	}
	logger.Debug("loaded %d contact rows from %s", len(records), cfg.DataFile)

	contact := NewContactPage(s.Page, cfg.WaitTimeout(), cfg.UploadsDir)
	checks := make([]suite.Check, 0, len(records))
	for i, rec := range records {
		form := ContactFormFromRecord(rec)
		name := fmt.Sprintf("row %d", i+1)
		if form.Name != "" {
			name += " (" + form.Name + ")"
		}

		checks = append(checks, suite.New(Project, []string{"UI", "contact us", name}, func(ctx context.Context, t *suite.T) error {
			if err := contact.Open(cfg.URL("/contact_us")); err != nil {
				return err
			}
			if err := contact.Fill(form); err != nil {
				return err
			}
			if err := contact.Upload(form.File); err != nil {
				return err
			}
			return contact.Submit(form)
		}))
	}
	return checks
}

// ScreenshotOnFailure returns a runner hook that attaches a full-page
// screenshot of the session's page to a failed check.
func ScreenshotOnFailure(s *Session) func(ctx context.Context, c suite.Check, t *suite.T) {
	return func(ctx context.Context, c suite.Check, t *suite.T) {
		path := t.ArtifactPath(core.AttachmentScreenshot, ".png")
		if err := s.Screenshot(path); err != nil {
			logger.Warn("%s: %v", c.Name(), err)
			return
		}
		t.Attach(core.AttachmentScreenshot, path)
	}
}
