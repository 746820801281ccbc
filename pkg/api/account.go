package api

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Account is the registration form of the createAccount endpoint.
type Account struct {
	Title        string
	Name         string
	Email        string
	Password     string
	BirthDate    string
	BirthMonth   string
	BirthYear    string
	FirstName    string
	LastName     string
	Company      string
	Address1     string
	Address2     string
	Country      string
	ZipCode      string
	State        string
	City         string
	MobileNumber string
}

// Form encodes the account with the API's field names.
func (a Account) Form() url.Values {
	return url.Values{
		"title":         {a.Title},
		"name":          {a.Name},
		"email":         {a.Email},
		"password":      {a.Password},
		"birth_date":    {a.BirthDate},
		"birth_month":   {a.BirthMonth},
		"birth_year":    {a.BirthYear},
		"firstname":     {a.FirstName},
		"lastname":      {a.LastName},
		"company":       {a.Company},
		"address1":      {a.Address1},
		"address2":      {a.Address2},
		"country":       {a.Country},
		"zipcode":       {a.ZipCode},
		"state":         {a.State},
		"city":          {a.City},
		"mobile_number": {a.MobileNumber},
	}
}

// NewTestAccount returns a fully populated account with a unique e-mail, so
// creating and deleting it does not depend on earlier runs.
func NewTestAccount() Account {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return Account{
		Title:        "Miss",
		Name:         "e2e " + id,
		Email:        "e2e+" + id + "@example.com",
		Password:     "pw-" + id,
		BirthDate:    "02",
		BirthMonth:   "June",
		BirthYear:    "2002",
		FirstName:    "E2E",
		LastName:     "Tester",
		Company:      "Storefront QA",
		Address1:     "1 Test Street",
		Address2:     "Suite 2",
		Country:      "India",
		ZipCode:      "530013",
		State:        "Andhra Pradesh",
		City:         "Vizag",
		MobileNumber: "9999999999",
	}
}
