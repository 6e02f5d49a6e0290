package validator

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Required fails on an empty string.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return value != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MinLenString fails when value has fewer than min characters.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters long", min)},
	}
}

// MaxLenString fails when value has more than max characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters long", max)},
	}
}

// Alphanumeric fails unless value consists of ASCII letters and digits only.
func Alphanumeric(field, value string) Rule {
	return Rule{
		Check: func() bool { return alphanumericRegex.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must contain only letters and numbers"},
	}
}
