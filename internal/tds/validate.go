package tds

import (
	"regexp"
	"strings"

	"learnhub/internal/utility"
)

var fieldPatterns = map[string]struct {
	re      *regexp.Regexp
	message string
}{
	"tan":     {utility.TANRegex, "TAN must be 4 letters, 5 digits and a letter (e.g. ABCD12345E)"},
	"pan":     {utility.PANRegex, "PAN must be 5 letters, 4 digits and a letter (e.g. ABCDE1234F)"},
	"pincode": {utility.PincodeRegex, "pincode must be 6 digits and cannot start with 0"},
	"phone":   {utility.PhoneRegex, "phone must be a 10 digit mobile number starting with 6-9"},
}

// ValidateField checks a single identifier. Unknown fields are a client
// error.
func ValidateField(field, value string) (bool, string, error) {
	value = strings.TrimSpace(value)
	field = strings.ToLower(strings.TrimSpace(field))

	if field == "email" {
		if utility.ValidateVar(value, "required,email") != nil {
			return false, "email must be a valid email address", nil
		}
		return true, "valid email", nil
	}

	p, ok := fieldPatterns[field]
	if !ok {
		return false, "", utility.BadRequest("unknown field %q, expected one of tan, pan, pincode, email, phone", field)
	}
	if !p.re.MatchString(value) {
		return false, p.message, nil
	}
	return true, "valid " + field, nil
}
