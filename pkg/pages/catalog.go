package pages

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
)

// Defaults for the catalog page.
const (
	HeadingSelector = ".panel-group .panel-title a"
	HeadingPrefix   = "Test Case"
)

// CatalogPage covers the test-cases list, the products page with its brand
// sidebar and cart, and the footer subscription form.
type CatalogPage struct {
	page    playwright.Page
	timeout time.Duration
	url     func(path string) string
}

// NewCatalogPage binds the catalog page to page. url joins a site path onto
// the base URL.
func NewCatalogPage(page playwright.Page, timeout time.Duration, url func(string) string) *CatalogPage {
	return &CatalogPage{page: page, timeout: timeout, url: url}
}

func (p *CatalogPage) open(path string) error {
	_, err := p.page.Goto(p.url(path), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms(p.timeout),
	})
	return waitErr("open "+path, p.timeout, err)
}

// Headings opens the test-cases page and returns the headings that start
// with prefix, whitespace-normalized.
func (p *CatalogPage) Headings(prefix string) ([]string, error) {
	if err := p.open("/test_cases"); err != nil {
		return nil, err
	}
	texts, err := p.page.Locator(HeadingSelector).AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("read headings: %w", err)
	}
	headings := FilterHeadings(texts, prefix)
	logger.Debug("found %d headings (filtered by %q)", len(headings), prefix)
	return headings, nil
}

// BrandNames opens the products page and returns the sidebar brand names
// without their product counts.
func (p *CatalogPage) BrandNames() ([]string, error) {
	if err := p.open("/products"); err != nil {
		return nil, err
	}
	if err := waitVisible(p.page.Locator("//div[@class='brands_products']"), "brands sidebar", p.timeout); err != nil {
		return nil, err
	}

	container := p.page.Locator(".brands-name")
	if err := container.ScrollIntoViewIfNeeded(); err != nil {
		return nil, fmt.Errorf("scroll to brands: %w", err)
	}
	texts, err := container.Locator("a").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("read brands: %w", err)
	}
	return CleanBrandNames(texts), nil
}

// AddToCart adds each product id to the cart, then opens the cart and
// returns the number of rows in it.
func (p *CatalogPage) AddToCart(productIDs ...int) (int, error) {
	for _, id := range productIDs {
		if err := p.open("/products"); err != nil {
			return 0, err
		}
		steps := []struct {
			what     string
			selector string
		}{
			{fmt.Sprintf("product %d details link", id), fmt.Sprintf("a[href='/product_details/%d']", id)},
			{"Add to cart button", "//button[normalize-space()='Add to cart']"},
			{"Continue Shopping button", "//button[normalize-space()='Continue Shopping']"},
		}
		for _, s := range steps {
			if err := p.page.Locator(s.selector).Click(); err != nil {
				return 0, waitErr(s.what, p.timeout, err)
			}
		}
		if err := settle(p.page, p.timeout); err != nil {
			return 0, err
		}
	}

	if err := p.page.Locator("//a[normalize-space()='Cart']").Click(); err != nil {
		return 0, waitErr("Cart link", p.timeout, err)
	}
	if err := settle(p.page, p.timeout); err != nil {
		return 0, err
	}
	rows, err := p.page.Locator("#cart_info_table tbody tr").Count()
	if err != nil {
		return 0, fmt.Errorf("count cart rows: %w", err)
	}
	return rows, nil
}

// Subscribe fills the footer subscription form and waits for the transient
// success banner to appear and then to go away. It returns the banner text.
func (p *CatalogPage) Subscribe(email string) (string, error) {
	footer := p.page.Locator("#footer")
	if err := footer.ScrollIntoViewIfNeeded(); err != nil {
		return "", fmt.Errorf("scroll to footer: %w", err)
	}
	if err := footer.Locator("#susbscribe_email").Fill(email); err != nil {
		return "", waitErr("subscription e-mail field", p.timeout, err)
	}
	if err := footer.Locator("#subscribe").Click(); err != nil {
		return "", waitErr("subscribe button", p.timeout, err)
	}

	banner := p.page.Locator("#success-subscribe .alert-success")
	if err := waitVisible(banner, "subscription success banner", p.timeout); err != nil {
		return "", err
	}
	msg, err := banner.InnerText()
	if err != nil {
		return "", fmt.Errorf("read subscription banner: %w", err)
	}
	if err := waitHidden(banner, "subscription banner dismissal", p.timeout); err != nil {
		return "", err
	}
	return strings.TrimSpace(msg), nil
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	brandCount = regexp.MustCompile(`\(\s*\d+\s*\)`)
)

// NormalizeSpace collapses whitespace runs and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// FilterHeadings normalizes texts and keeps those starting with prefix.
func FilterHeadings(texts []string, prefix string) []string {
	var out []string
	for _, t := range texts {
		t = NormalizeSpace(t)
		if strings.HasPrefix(t, prefix) {
			out = append(out, t)
		}
	}
	return out
}

// CleanBrandNames strips "(N)" counts and drops empty entries.
func CleanBrandNames(texts []string) []string {
	var out []string
	for _, t := range texts {
		if name := NormalizeSpace(brandCount.ReplaceAllString(t, "")); name != "" {
			out = append(out, name)
		}
	}
	return out
}
