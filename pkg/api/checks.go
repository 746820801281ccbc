package api

import (
	"context"
	"net/http"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/suite"
)

// Project is the project name recorded for API checks.
const Project = "api"

// Messages the API answers with.
const (
	MsgMethodNotSupported = "This request method is not supported."
	MsgUserExists         = "User exists!"
	MsgLoginParamMissing  = "Bad request, email or password parameter is missing in POST request."
	MsgSearchParamMissing = "Bad request, search_product parameter is missing in POST request."
	MsgUserNotFound       = "User not found!"
	MsgUserCreated        = "User created!"
	MsgEmailExists        = "Email already exists!"
	MsgAccountDeleted     = "Account deleted!"
	MsgAccountNotFound    = "Account not found!"
)

// Credentials of an existing account, used by the valid-login check.
type Credentials struct {
	Email    string
	Password string
}

// Checks returns the API check catalog in execution order.
func Checks(c *Client, creds Credentials) []suite.Check {
	title := func(name string) []string { return []string{"API", name} }

	return []suite.Check{
		suite.New(Project, title("GET productsList returns products"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.ProductsList(ctx)
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusOK), expectProducts())
		}),

		suite.New(Project, title("POST productsList is not supported"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.Do(ctx, http.MethodPost, PathProductsList, nil)
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusMethodNotAllowed), expectMessage(MsgMethodNotSupported))
		}),

		suite.New(Project, title("GET brandsList returns brands"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.BrandsList(ctx)
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusOK), expectBrands())
		}),

		suite.New(Project, title("PUT brandsList is not supported"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.Do(ctx, http.MethodPut, PathBrandsList, nil)
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusMethodNotAllowed), expectMessage(MsgMethodNotSupported))
		}),

		suite.New(Project, title("POST searchProduct returns matches"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.SearchProduct(ctx, "tshirt")
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusOK), expectProducts())
		}),

		suite.New(Project, title("POST searchProduct without parameter"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.SearchProduct(ctx, "")
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusBadRequest), expectMessage(MsgSearchParamMissing))
		}),

		suite.New(Project, title("POST verifyLogin with valid details"), func(ctx context.Context, t *suite.T) error {
			if creds.Email == "" || creds.Password == "" {
				return suite.Skipf("%v", core.ErrMissingCredentials)
			}
			resp, err := c.VerifyLogin(ctx, creds.Email, creds.Password)
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusOK), expectMessage(MsgUserExists))
		}),

		suite.New(Project, title("POST verifyLogin without email"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.VerifyLogin(ctx, "", "some-password")
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusBadRequest), expectMessage(MsgLoginParamMissing))
		}),

		suite.New(Project, title("DELETE verifyLogin is not supported"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.Do(ctx, http.MethodDelete, PathVerifyLogin, nil)
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusMethodNotAllowed), expectMessage(MsgMethodNotSupported))
		}),

		suite.New(Project, title("POST verifyLogin with invalid details"), func(ctx context.Context, t *suite.T) error {
			resp, err := c.VerifyLogin(ctx, "invaliduser@example.com", "WrongPass123")
			if err != nil {
				return err
			}
			return verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusNotFound), expectMessage(MsgUserNotFound))
		}),

		suite.New(Project, title("create then delete user account"), func(ctx context.Context, t *suite.T) error {
			return accountLifecycle(ctx, t, c, NewTestAccount())
		}),
	}
}

// accountLifecycle registers a fresh account, reads it back, checks that the
// e-mail is now taken, then deletes it and checks that it is gone.
func accountLifecycle(ctx context.Context, t *suite.T, c *Client, a Account) error {
	resp, err := c.CreateAccount(ctx, a)
	if err != nil {
		return err
	}
	if err := verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusCreated), expectMessage(MsgUserCreated)); err != nil {
		return err
	}
	t.Logf("created %s", a.Email)

	// Delete even when a later step fails so the account does not leak.
	deleted := false
	defer func() {
		if !deleted {
			if _, err := c.DeleteAccount(context.WithoutCancel(ctx), a.Email, a.Password); err != nil {
				t.Logf("cleanup of %s failed: %v", a.Email, err)
			}
		}
	}()

	resp, err = c.UserByEmail(ctx, a.Email)
	if err != nil {
		return err
	}
	if err := verify(t, resp, expectCode(http.StatusOK), expectUser(a.Email)); err != nil {
		return err
	}

	resp, err = c.CreateAccount(ctx, a)
	if err != nil {
		return err
	}
	if err := verify(t, resp, expectCode(http.StatusBadRequest), expectMessage(MsgEmailExists)); err != nil {
		return err
	}

	resp, err = c.DeleteAccount(ctx, a.Email, a.Password)
	if err != nil {
		return err
	}
	if err := verify(t, resp, expectStatus(http.StatusOK), expectCode(http.StatusOK), expectMessage(MsgAccountDeleted)); err != nil {
		return err
	}
	deleted = true

	resp, err = c.DeleteAccount(ctx, a.Email, a.Password)
	if err != nil {
		return err
	}
	return verify(t, resp, expectCode(http.StatusNotFound), expectMessage(MsgAccountNotFound))
}
