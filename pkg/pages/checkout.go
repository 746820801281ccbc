package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
)

// Card is the payment form input.
type Card struct {
	NameOnCard  string
	Number      string
	CVC         string
	ExpiryMonth string
	ExpiryYear  string
}

// TestCard returns dummy card details that expire next year.
func TestCard(now time.Time) Card {
	return Card{
		NameOnCard:  "test user",
		Number:      "1234567890123456",
		CVC:         "123",
		ExpiryMonth: "12",
		ExpiryYear:  strconv.Itoa(now.Year() + 1),
	}
}

// CheckoutPage covers checkout, payment, confirmation and invoice download.
type CheckoutPage struct {
	page    playwright.Page
	timeout time.Duration
	url     func(string) string
}

// NewCheckoutPage binds the checkout flow to page.
func NewCheckoutPage(page playwright.Page, timeout time.Duration, url func(string) string) *CheckoutPage {
	return &CheckoutPage{page: page, timeout: timeout, url: url}
}

// Proceed clicks "Proceed To Checkout" from the cart and returns the
// delivery address block.
func (p *CheckoutPage) Proceed() (string, error) {
	if err := p.page.Locator("//a[normalize-space()='Proceed To Checkout']").Click(); err != nil {
		return "", waitErr("Proceed To Checkout button", p.timeout, err)
	}
	if err := settle(p.page, p.timeout); err != nil {
		return "", err
	}
	address, err := p.page.Locator("//ul[@id='address_delivery']").InnerText()
	if err != nil {
		return "", waitErr("delivery address", p.timeout, err)
	}
	address = strings.TrimSpace(address)
	logger.Debug("delivery address: %s", NormalizeSpace(address))
	return address, nil
}

// PlaceOrder moves to the payment step.
func (p *CheckoutPage) PlaceOrder() error {
	if err := p.page.Locator("//a[normalize-space()='Place Order']").Click(); err != nil {
		return waitErr("Place Order button", p.timeout, err)
	}
	return settle(p.page, p.timeout)
}

// Pay fills the payment form and submits it. It opens the payment page when
// the browser is not already there.
func (p *CheckoutPage) Pay(c Card) error {
	if !strings.Contains(p.page.URL(), "/payment") {
		if _, err := p.page.Goto(p.url("/payment")); err != nil {
			return waitErr("open payment page", p.timeout, err)
		}
		if err := settle(p.page, p.timeout); err != nil {
			return err
		}
	}

	fields := []struct {
		what, selector, val string
	}{
		{"name on card", "input[name='name_on_card']", c.NameOnCard},
		{"card number", "input[name='card_number']", c.Number},
		{"CVC", "//input[@placeholder='ex. 311']", c.CVC},
		{"expiry month", "//input[@name='expiry_month']", c.ExpiryMonth},
		{"expiry year", "//input[@placeholder='YYYY']", c.ExpiryYear},
	}
	for _, f := range fields {
		if err := p.page.Locator(f.selector).Fill(f.val); err != nil {
			return waitErr(f.what, p.timeout, err)
		}
	}
	if err := p.page.Locator("//button[@id='submit']").Click(); err != nil {
		return waitErr("Pay and Confirm Order button", p.timeout, err)
	}
	return settle(p.page, p.timeout)
}

// ConfirmOrder waits for the "Order Placed!" confirmation.
func (p *CheckoutPage) ConfirmOrder() error {
	return waitVisible(p.page.Locator("//b[normalize-space()='Order Placed!']"), "order confirmation", p.timeout)
}

// DownloadInvoice clicks "Download Invoice", waits for the download and saves
// it into dir. An empty name keeps the browser-suggested file name. It
// returns the saved path.
func (p *CheckoutPage) DownloadInvoice(dir, name string) (string, error) {
	link := p.page.Locator("//a[normalize-space()='Download Invoice']")
	if err := waitVisible(link, "Download Invoice link", p.timeout); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir: %w", err)
	}

	download, err := p.page.ExpectDownload(func() error {
		return link.Click()
	}, playwright.PageExpectDownloadOptions{Timeout: ms(p.timeout)})
	if err != nil {
		return "", waitErr("invoice download", p.timeout, err)
	}

	if name == "" {
		name = InvoiceFileName(download.SuggestedFilename())
	}
	path := filepath.Join(dir, name)
	if err := download.SaveAs(path); err != nil {
		return "", fmt.Errorf("save invoice: %w", err)
	}
	logger.Info("invoice saved to: %s", path)
	return path, nil
}

// InvoiceFileName returns the suggested name, or "invoice" when it is empty
// or not a plain file name.
func InvoiceFileName(suggested string) string {
	base := filepath.Base(strings.ReplaceAll(suggested, `\`, "/"))
	if suggested == "" || base == "." || base == "/" || base == ".." {
		return "invoice"
	}
	return base
}
