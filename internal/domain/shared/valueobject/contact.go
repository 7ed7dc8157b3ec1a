package valueobject

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/storefront/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Contact field validation limits
const (
	minContactNameLen    = 2
	minContactPhoneDigit = 10
	minContactAddressLen = 10
)

// CustomerContact is the customer-supplied contact and delivery
// information collected at checkout. It is copied onto the order and
// immutable afterwards.
type CustomerContact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NewCustomerContact creates a contact with whitespace trimmed.
// Call Validate before using it to create an order.
func NewCustomerContact(name, email, phone, address string) CustomerContact {
	return CustomerContact{
		Name:    strings.TrimSpace(name),
		Email:   strings.TrimSpace(email),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
	}
}

// Validate checks the contact against checkout format rules and returns
// a field-keyed map of failures. An empty map means the contact is valid.
func (c CustomerContact) Validate() shared.ValidationErrors {
	errs := make(shared.ValidationErrors)

	if len([]rune(c.Name)) < minContactNameLen {
		errs.Add("name", "Name must be at least 2 characters")
	}
	if !emailPattern.MatchString(c.Email) {
		errs.Add("email", "Email address is not valid")
	}
	if countDigits(c.Phone) < minContactPhoneDigit {
		errs.Add("phone", "Phone number must contain at least 10 digits")
	}
	if len([]rune(c.Address)) < minContactAddressLen {
		errs.Add("address", "Delivery address must be at least 10 characters")
	}

	return errs
}

// IsValid returns true if the contact passes all format rules
func (c CustomerContact) IsValid() bool {
	return !c.Validate().HasErrors()
}

func countDigits(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
