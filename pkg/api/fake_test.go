package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// fakeShop mimics the storefront API: HTTP 200 everywhere, outcome in the
// JSON body.
type fakeShop struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
}

func newFakeShop(t *testing.T, seed map[string]string) *httptest.Server {
	t.Helper()
	shop := &fakeShop{accounts: map[string]string{}}
	for k, v := range seed {
		shop.accounts[k] = v
	}
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)
	return srv
}

func (s *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case PathProductsList:
		if r.Method != http.MethodGet {
			writeJSON(w, Payload{ResponseCode: 405, Message: MsgMethodNotSupported})
			return
		}
		writeJSON(w, Payload{ResponseCode: 200, Products: []Product{{ID: 1, Name: "Blue Top"}, {ID: 2, Name: "Men Tshirt"}}})

	case PathBrandsList:
		if r.Method != http.MethodGet {
			writeJSON(w, Payload{ResponseCode: 405, Message: MsgMethodNotSupported})
			return
		}
		writeJSON(w, Payload{ResponseCode: 200, Brands: []Brand{{ID: 1, Brand: "Polo"}, {ID: 2, Brand: "H&M"}}})

	case PathSearchProduct:
		term := form.Get("search_product")
		if term == "" {
			writeJSON(w, Payload{ResponseCode: 400, Message: MsgSearchParamMissing})
			return
		}
		writeJSON(w, Payload{ResponseCode: 200, Products: []Product{{ID: 2, Name: "Men Tshirt"}}})

	case PathVerifyLogin:
		if r.Method != http.MethodPost {
			writeJSON(w, Payload{ResponseCode: 405, Message: MsgMethodNotSupported})
			return
		}
		email, password := form.Get("email"), form.Get("password")
		if email == "" || password == "" {
			writeJSON(w, Payload{ResponseCode: 400, Message: MsgLoginParamMissing})
			return
		}
		if pw, ok := s.accounts[email]; ok && pw == password {
			writeJSON(w, Payload{ResponseCode: 200, Message: MsgUserExists})
			return
		}
		writeJSON(w, Payload{ResponseCode: 404, Message: MsgUserNotFound})

	case PathCreateAccount:
		email := form.Get("email")
		if _, ok := s.accounts[email]; ok {
			writeJSON(w, Payload{ResponseCode: 400, Message: MsgEmailExists})
			return
		}
		s.accounts[email] = form.Get("password")
		writeJSON(w, Payload{ResponseCode: 201, Message: MsgUserCreated})

	case PathDeleteAccount:
		email := form.Get("email")
		if pw, ok := s.accounts[email]; !ok || pw != form.Get("password") {
			writeJSON(w, Payload{ResponseCode: 404, Message: MsgAccountNotFound})
			return
		}
		delete(s.accounts, email)
		writeJSON(w, Payload{ResponseCode: 200, Message: MsgAccountDeleted})

	case PathUserDetail:
		email := r.URL.Query().Get("email")
		if _, ok := s.accounts[email]; !ok {
			writeJSON(w, Payload{ResponseCode: 404, Message: "Account not found with this email, try another email!"})
			return
		}
		writeJSON(w, Payload{ResponseCode: 200, User: &User{ID: 7, Email: email}})

	default:
		http.NotFound(w, r)
	}
}

// readForm parses a url-encoded body for any method; net/http only does
// that for POST, PUT and PATCH.
func readForm(r *http.Request) url.Values {
	data, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(strings.TrimSpace(string(data)))
	return form
}

func writeJSON(w http.ResponseWriter, p Payload) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}
