package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/csvdata"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
)

// ContactSuccessMessage is shown after a successful submission.
const ContactSuccessMessage = "Success! Your details have been submitted successfully."

// ContactForm is one data-driven submission of the contact form.
type ContactForm struct {
	Name           string
	Email          string
	Subject        string
	Message        string
	File           string // name of a file under the uploads directory, optional
	ExpectedResult string // "success" asserts the confirmation message
}

// ContactFormFromRecord maps a CSV row onto a ContactForm.
func ContactFormFromRecord(r csvdata.Record) ContactForm {
	return ContactForm{
		Name:           r.Get("name"),
		Email:          r.Get("email"),
		Subject:        r.Get("subject"),
		Message:        r.Get("message"),
		File:           r.Get("file"),
		ExpectedResult: r.Get("expectedResult"),
	}
}

// ExpectsSuccess reports whether the row expects a confirmation.
func (f ContactForm) ExpectsSuccess() bool {
	return strings.EqualFold(strings.TrimSpace(f.ExpectedResult), "success")
}

// ContactPage is the "Contact us" page.
type ContactPage struct {
	page       playwright.Page
	timeout    time.Duration
	uploadsDir string
	dialogs    chan string

	name    playwright.Locator
	email   playwright.Locator
	subject playwright.Locator
	message playwright.Locator
	upload  playwright.Locator
	submit  playwright.Locator
	success playwright.Locator
	home    playwright.Locator
}

// NewContactPage binds the contact page to page and starts accepting the
// confirmation dialog the form raises on submit.
func NewContactPage(page playwright.Page, timeout time.Duration, uploadsDir string) *ContactPage {
	p := &ContactPage{
		page:       page,
		timeout:    timeout,
		uploadsDir: uploadsDir,
		dialogs:    make(chan string, 1),
		name:       page.Locator("input[placeholder='Name']"),
		email:      page.Locator("input[placeholder='Email']"),
		subject:    page.Locator("input[placeholder='Subject']"),
		message:    page.Locator("textarea#message"),
		upload:     page.Locator("input[name='upload_file']"),
		submit:     page.Locator("input[name='submit']"),
		success:    page.Locator("//div[@class='status alert alert-success']"),
		home:       page.Locator("//span[normalize-space()='Home']"),
	}
	page.OnDialog(func(d playwright.Dialog) {
		msg := d.Message()
		if err := d.Accept(); err != nil {
			logger.Warn("accept dialog %q: %v", msg, err)
		}
		select {
		case p.dialogs <- msg:
		default:
		}
	})
	return p
}

// Open navigates to the contact page.
func (p *ContactPage) Open(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms(p.timeout),
	})
	if err != nil {
		return waitErr("open contact page", p.timeout, err)
	}
	return waitVisible(p.name, "contact form", p.timeout)
}

// Fill types the text fields of f.
func (p *ContactPage) Fill(f ContactForm) error {
	fields := []struct {
		what string
		loc  playwright.Locator
		val  string
	}{
		{"name field", p.name, f.Name},
		{"e-mail field", p.email, f.Email},
		{"subject field", p.subject, f.Subject},
		{"message field", p.message, f.Message},
	}
	for _, field := range fields {
		if err := field.loc.Fill(field.val); err != nil {
			return waitErr(field.what, p.timeout, err)
		}
	}
	return nil
}

// Upload attaches a file from the uploads directory. An empty name is a
// no-op; a missing file is a configuration error.
func (p *ContactPage) Upload(name string) error {
	if name == "" {
		return nil
	}
	path, err := filepath.Abs(filepath.Join(p.uploadsDir, name))
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return &core.CheckError{
			Category: core.ErrCategoryConfig,
			Code:     "upload_missing",
			Message:  fmt.Sprintf("file not found: %s", path),
			Cause:    err,
		}
	}
	if err := p.upload.SetInputFiles(path); err != nil {
		return fmt.Errorf("set upload file: %w", err)
	}
	return nil
}

// Submit clicks submit and waits for the confirmation dialog. When f
// expects success it also waits for the confirmation message and follows
// the Home button.
func (p *ContactPage) Submit(f ContactForm) error {
	if err := p.submit.Click(); err != nil {
		return waitErr("submit button", p.timeout, err)
	}
	msg, err := awaitMessage(p.dialogs, "confirmation dialog", p.timeout)
	if err != nil {
		return err
	}
	logger.Debug("accepted dialog: %s", msg)

	if !f.ExpectsSuccess() {
		return nil
	}

	if err := waitVisible(p.success, "contact success message", p.timeout); err != nil {
		return err
	}
	text, err := p.success.InnerText()
	if err != nil {
		return fmt.Errorf("read success message: %w", err)
	}
	if !strings.Contains(text, ContactSuccessMessage) {
		return core.ErrMessageMismatch.WithMessage("contact success message %q, want %q", strings.TrimSpace(text), ContactSuccessMessage)
	}

	if n, err := p.home.Count(); err != nil || n == 0 {
		return nil
	}
	if err := p.home.First().Click(); err != nil {
		return waitErr("Home button", p.timeout, err)
	}
	err = p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: ms(p.timeout),
	})
	return waitErr("home page load", p.timeout, err)
}
