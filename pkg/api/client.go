// Package api is a client for the storefront's REST API and the catalog of
// API checks run against it.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
)

// Endpoint paths.
const (
	PathProductsList  = "/api/productsList"
	PathBrandsList    = "/api/brandsList"
	PathSearchProduct = "/api/searchProduct"
	PathVerifyLogin   = "/api/verifyLogin"
	PathCreateAccount = "/api/createAccount"
	PathDeleteAccount = "/api/deleteAccount"
	PathUserDetail    = "/api/getUserDetailByEmail"
)

// Client talks to the storefront API. The site answers most requests with
// HTTP 200 and reports the outcome in the body's responseCode and message.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client with a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Product is one entry of a product listing.
type Product struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Brand    string   `json:"brand"`
	Category Category `json:"category"`
}

// Category of a product.
type Category struct {
	UserType struct {
		UserType string `json:"usertype"`
	} `json:"usertype"`
	Category string `json:"category"`
}

// Brand is one entry of the brand listing.
type Brand struct {
	ID    int    `json:"id"`
	Brand string `json:"brand"`
}

// User is the account returned by the user detail endpoint.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payload is the JSON body the API answers with.
type Payload struct {
	ResponseCode int       `json:"responseCode"`
	Message      string    `json:"message,omitempty"`
	Products     []Product `json:"products,omitempty"`
	Brands       []Brand   `json:"brands,omitempty"`
	User         *User     `json:"user,omitempty"`
}

// Response is a raw HTTP response plus its decoded payload. Payload is the
// zero value when the body is not JSON.
type Response struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Payload Payload
}

// Do sends a request. A non-nil form is sent url-encoded in the body, for
// DELETE as well as POST and PUT. Transport failures are returned as
// core.ErrUnreachable; HTTP error statuses are not errors.
func (c *Client) Do(ctx context.Context, method, path string, form url.Values) (*Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, core.ErrUnreachable.WithMessage("%s %s", method, path).WithCause(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.ErrUnreachable.WithMessage("read %s %s", method, path).WithCause(err)
	}
	logger.Debug("%s %s -> %d (%dms, %d bytes)", method, path, resp.StatusCode, time.Since(start).Milliseconds(), len(data))

	r := &Response{Method: method, Path: path, Status: resp.StatusCode, Body: data}
	if err := json.Unmarshal(data, &r.Payload); err != nil {
		logger.Debug("%s %s: body is not JSON: %v", method, path, err)
	}
	return r, nil
}

// ProductsList fetches all products.
func (c *Client) ProductsList(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodGet, PathProductsList, nil)
}

// BrandsList fetches all brands.
func (c *Client) BrandsList(ctx context.Context) (*Response, error) {
	return c.Do(ctx, http.MethodGet, PathBrandsList, nil)
}

// SearchProduct searches products by name. An empty term omits the parameter.
func (c *Client) SearchProduct(ctx context.Context, term string) (*Response, error) {
	form := url.Values{}
	if term != "" {
		form.Set("search_product", term)
	}
	return c.Do(ctx, http.MethodPost, PathSearchProduct, form)
}

// VerifyLogin checks credentials. Empty fields are omitted from the form.
func (c *Client) VerifyLogin(ctx context.Context, email, password string) (*Response, error) {
	form := url.Values{}
	if email != "" {
		form.Set("email", email)
	}
	if password != "" {
		form.Set("password", password)
	}
	return c.Do(ctx, http.MethodPost, PathVerifyLogin, form)
}

// CreateAccount registers a new account.
func (c *Client) CreateAccount(ctx context.Context, a Account) (*Response, error) {
	return c.Do(ctx, http.MethodPost, PathCreateAccount, a.Form())
}

// DeleteAccount deletes the account with the given credentials.
func (c *Client) DeleteAccount(ctx context.Context, email, password string) (*Response, error) {
	form := url.Values{"email": {email}, "password": {password}}
	return c.Do(ctx, http.MethodDelete, PathDeleteAccount, form)
}

// UserByEmail fetches account details.
func (c *Client) UserByEmail(ctx context.Context, email string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, PathUserDetail+"?"+url.Values{"email": {email}}.Encode(), nil)
}
