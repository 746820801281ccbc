package api

import (
	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/suite"
)

// expectation checks one property of a response.
type expectation func(r *Response) error

// verify runs expectations in order and returns the first failure. The raw
// body is attached to the check when an expectation fails.
func verify(t *suite.T, r *Response, exps ...expectation) error {
	for _, exp := range exps {
		if err := exp(r); err != nil {
			if attachErr := t.AttachBytes(core.AttachmentResponse, ".json", core.ContentTypeJSON, r.Body); attachErr != nil {
				t.Logf("attach response: %v", attachErr)
			}
			return err
		}
	}
	return nil
}

func expectStatus(want int) expectation {
	return func(r *Response) error {
		if r.Status != want {
			return core.ErrStatusMismatch.WithMessage("%s %s: HTTP status %d, want %d", r.Method, r.Path, r.Status, want)
		}
		return nil
	}
}

func expectCode(want int) expectation {
	return func(r *Response) error {
		if r.Payload.ResponseCode != want {
			return core.ErrStatusMismatch.WithMessage("%s %s: responseCode %d, want %d", r.Method, r.Path, r.Payload.ResponseCode, want)
		}
		return nil
	}
}

func expectMessage(want string) expectation {
	return func(r *Response) error {
		if r.Payload.Message != want {
			return core.ErrMessageMismatch.WithMessage("%s %s: message %q, want %q", r.Method, r.Path, r.Payload.Message, want)
		}
		return nil
	}
}

func expectProducts() expectation {
	return func(r *Response) error {
		if len(r.Payload.Products) == 0 {
			return core.ErrEmptyList.WithMessage("%s %s: no products", r.Method, r.Path)
		}
		return nil
	}
}

func expectBrands() expectation {
	return func(r *Response) error {
		if len(r.Payload.Brands) == 0 {
			return core.ErrEmptyList.WithMessage("%s %s: no brands", r.Method, r.Path)
		}
		return nil
	}
}

func expectUser(email string) expectation {
	return func(r *Response) error {
		if r.Payload.User == nil || r.Payload.User.Email != email {
			return core.ErrMessageMismatch.WithMessage("%s %s: user detail does not match %s", r.Method, r.Path, email)
		}
		return nil
	}
}
