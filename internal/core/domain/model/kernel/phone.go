package kernel

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// defaultCountryCode is prepended to bare national numbers during
// normalization. All sellers, buyers, and agents are onboarded with Indian
// numbers, so a 10-digit input is treated as national.
const defaultCountryCode = "+91"

// ErrPhoneIsNotConstructed indicates that a Phone was not created via NewPhone.
var ErrPhoneIsNotConstructed = errs.NewValueIsRequiredError("phone must be created via NewPhone constructor")

// Phone is an immutable value object holding a phone number normalized to a
// single canonical international format (E.164). Every SMS gateway call and
// every OTP session key uses the normalized form, so two spellings of the same
// number can never produce two sessions.
//
// The zero value is invalid; use NewPhone.
type Phone struct {
	value string
}

// NewPhone normalizes and validates a raw phone number.
//
// Normalization rules:
//   - spaces, dashes, dots, and parentheses are stripped
//   - a leading "00" is replaced with "+"
//   - a bare 10-digit national number gets the default country code
//   - the result must be "+" followed by 10 to 15 digits
func NewPhone(raw string) (Phone, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}

	if strings.HasPrefix(cleaned, "00") {
		cleaned = "+" + cleaned[2:]
	}

	if !strings.HasPrefix(cleaned, "+") {
		if len(cleaned) == 10 && isDigits(cleaned) {
			cleaned = defaultCountryCode + cleaned
		} else {
			return Phone{}, errs.NewValueIsInvalidErrorWithCause("phone",
				fmt.Errorf("%q is neither international nor a 10-digit national number", raw))
		}
	}

	digits := cleaned[1:]
	if len(digits) < 10 || len(digits) > 15 || !isDigits(digits) {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause("phone",
			fmt.Errorf("%q does not normalize to E.164", raw))
	}

	return Phone{value: cleaned}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the normalized E.164 representation, e.g. "+919876543210".
func (p Phone) String() string {
	return p.value
}

// IsEqual compares two phone numbers by their normalized form.
func (p Phone) IsEqual(other Phone) bool {
	return p.value == other.value
}

// Validate returns ErrPhoneIsNotConstructed for the zero value.
func (p Phone) Validate() error {
	if p.value == "" {
		return ErrPhoneIsNotConstructed
	}
	return nil
}
