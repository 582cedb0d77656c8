// Package fieldrule holds the free-text and email format rules shared by the
// registration and event forms.
package fieldrule

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// plainText accepts ASCII letters, digits and the space character only.
var plainText = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// validate is safe for concurrent use once built.
var validate = validator.New()

// IsPlainText reports whether s consists entirely of letters, digits and spaces.
// PRE: none
// POST: Returns false for the empty string
func IsPlainText(s string) bool {
	return plainText.MatchString(s)
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsEmail reports whether s is a syntactically valid email address.
// PRE: none
// POST: Returns false for the empty string
func IsEmail(s string) bool {
	if s == "" {
		return false
	}
	return validate.Var(s, "email") == nil
}
