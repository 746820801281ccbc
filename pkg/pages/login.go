package pages

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
)

// LoginPage is the "Signup / Login" page.
type LoginPage struct {
	page     playwright.Page
	timeout  time.Duration
	email    playwright.Locator
	password playwright.Locator
	submit   playwright.Locator
	navLink  playwright.Locator
	logo     playwright.Locator
}

// NewLoginPage binds the login page locators to page.
func NewLoginPage(page playwright.Page, timeout time.Duration) *LoginPage {
	return &LoginPage{
		page:     page,
		timeout:  timeout,
		email:    page.Locator("//input[@data-qa='login-email']"),
		password: page.Locator("//input[@placeholder='Password']"),
		submit:   page.Locator("//button[normalize-space()='Login']"),
		navLink:  page.Locator("//a[normalize-space()='Signup / Login']"),
		logo:     page.Locator("//img[@alt='Website for automation practice']"),
	}
}

// Open navigates from baseURL through the header link to the login form.
func (p *LoginPage) Open(baseURL string) error {
	if _, err := p.page.Goto(baseURL); err != nil {
		return core.ErrUnreachable.WithMessage("open %s", baseURL).WithCause(err)
	}
	if err := p.navLink.Click(); err != nil {
		return waitErr("Signup / Login link", p.timeout, err)
	}
	return settle(p.page, p.timeout)
}

// Login submits the credentials and waits for the home page logo.
func (p *LoginPage) Login(user, password string) error {
	if user == "" || password == "" {
		return core.ErrMissingCredentials
	}
	if err := p.email.Fill(user); err != nil {
		return waitErr("login e-mail field", p.timeout, err)
	}
	if err := p.password.Fill(password); err != nil {
		return waitErr("login password field", p.timeout, err)
	}
	if err := p.submit.Click(); err != nil {
		return waitErr("Login button", p.timeout, err)
	}
	return waitVisible(p.logo, "home page logo", p.timeout)
}
